package sync

import (
	"testing"

	"github.com/harperreed/leadbook/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "clientname", NormalizeHeader("Client Name"))
	assert.Equal(t, "followupdate", NormalizeHeader(" Follow\tUp  Date "))
	assert.Equal(t, "budget", NormalizeHeader("BUDGET"))
}

func TestLookupField_Synonyms(t *testing.T) {
	tests := []struct {
		header string
		want   Field
	}{
		{"Name", FieldName},
		{"Client Name", FieldName},
		{"Phone", FieldPhone},
		{"Contact", FieldPhone},
		{"Budget", FieldBudgetRange},
		{"Budget Range", FieldBudgetRange},
		{"Project", FieldProjectName},
		{"Project Name", FieldProjectName},
		{"Image", FieldAvatar},
		{"Avatar", FieldAvatar},
		{"Client Image URL", FieldAvatar},
		{"Follow Up Type", FieldFollowUpType},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := LookupField(tt.header)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := LookupField("Favourite Colour")
	assert.False(t, ok)
}

func TestMapRow_ExampleScenario(t *testing.T) {
	c := MapRow([]string{"Client Name", "Contact", "Status"}, []string{"Robert Fox", "+1 234", "Hot"}, 0)

	assert.Equal(t, "Robert Fox", c.Name)
	assert.Equal(t, "+1 234", c.Phone)
	assert.Equal(t, models.StatusHot, c.Status)
	assert.Equal(t, "", c.Location, "no city, so location stays empty")
	assert.Equal(t, "https://picsum.photos/seed/RobertFox/200", c.Avatar)
	assert.Empty(t, c.ID)
}

func TestMapRow_Defaults(t *testing.T) {
	headers := []string{"Name", "City", "Status", "Avatar"}

	t.Run("blank status becomes New Lead", func(t *testing.T) {
		c := MapRow(headers, []string{"Ann", "Austin", "", ""}, 3)
		assert.Equal(t, models.StatusNewLead, c.Status)
	})

	t.Run("unknown status becomes New Lead", func(t *testing.T) {
		c := MapRow(headers, []string{"Ann", "Austin", "Maybe later", ""}, 3)
		assert.Equal(t, models.StatusNewLead, c.Status)
	})

	t.Run("status label is canonicalized", func(t *testing.T) {
		c := MapRow(headers, []string{"Ann", "Austin", "follow up", ""}, 3)
		assert.Equal(t, models.StatusFollowUp, c.Status)
	})

	t.Run("location copies city", func(t *testing.T) {
		c := MapRow(headers, []string{"Ann", "Austin", "Hot", ""}, 3)
		assert.Equal(t, "Austin", c.Location)
	})

	t.Run("avatar from index when name blank", func(t *testing.T) {
		c := MapRow(headers, []string{"", "", "", ""}, 3)
		assert.Equal(t, "https://picsum.photos/seed/3/200", c.Avatar)
	})

	t.Run("explicit avatar kept", func(t *testing.T) {
		c := MapRow(headers, []string{"Ann", "", "", "https://img.example.com/ann.png"}, 3)
		assert.Equal(t, "https://img.example.com/ann.png", c.Avatar)
	})
}

func TestMapRow_ShortRowAndUnknownHeaders(t *testing.T) {
	headers := []string{"Shoe Size", "Name", "Email", "City"}
	c := MapRow(headers, []string{"44", "Jane Cooper"}, 0)

	assert.Equal(t, "Jane Cooper", c.Name)
	assert.Empty(t, c.Email)
	assert.Empty(t, c.City)
	assert.Equal(t, 2, NewColumnMap(headers).Mapped())
}

func TestMapRow_Idempotent(t *testing.T) {
	headers := []string{"Client Name", "Phone", "City", "Status", "Budget"}
	row := []string{"Cody Fisher", "555", "Chicago", "negotiation", "1-2 Cr"}

	first := MapRow(headers, row, 7)
	second := MapRow(headers, row, 7)
	assert.Equal(t, first, second)

	again := first
	ApplyDefaults(&again, 7)
	assert.Equal(t, first, again, "defaults are stable once applied")
}

func TestAvatarURL_Deterministic(t *testing.T) {
	assert.Equal(t, AvatarURL("Jane  Cooper", 1), AvatarURL("Jane Cooper", 9))
	assert.NotEmpty(t, AvatarURL("", 0))
}

func TestColumnMap_Row(t *testing.T) {
	c := models.Contact{Name: "Ann", City: "Austin", Phone: "1", BudgetRange: "50L"}

	row := RowForHeaders([]string{"Client Name", "Location", "Status", "Budget", "Unknown"}, c)
	assert.Equal(t, []string{"Ann", "Austin", "New Lead", "50L", ""}, row)

	// Mapping the rendered row back gives the same fields.
	back := MapRow(DefaultHeaders, RowForHeaders(DefaultHeaders, c), 0)
	assert.Equal(t, c.Name, back.Name)
	assert.Equal(t, c.BudgetRange, back.BudgetRange)
	assert.Equal(t, "Austin", back.Location)
}
