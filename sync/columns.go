// ABOUTME: Column mapping from free-form spreadsheet headers to the contact schema
// ABOUTME: Normalizes headers, resolves synonyms, and applies contact defaults
package sync

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/harperreed/leadbook/models"
)

// Field is a contact attribute a column can map to.
type Field int

const (
	FieldNone Field = iota
	FieldName
	FieldPhone
	FieldEmail
	FieldProfession
	FieldCity
	FieldLocation
	FieldStatus
	FieldNotes
	FieldProjectName
	FieldBudgetRange
	FieldPropertyType
	FieldFollowUpDate
	FieldFollowUpTime
	FieldFollowUpType
	FieldAvatar
)

// synonyms is keyed by normalized header.
var synonyms = map[string]Field{
	"name":           FieldName,
	"clientname":     FieldName,
	"phone":          FieldPhone,
	"contact":        FieldPhone,
	"email":          FieldEmail,
	"profession":     FieldProfession,
	"city":           FieldCity,
	"location":       FieldLocation,
	"status":         FieldStatus,
	"notes":          FieldNotes,
	"projectname":    FieldProjectName,
	"project":        FieldProjectName,
	"budget":         FieldBudgetRange,
	"budgetrange":    FieldBudgetRange,
	"propertytype":   FieldPropertyType,
	"followupdate":   FieldFollowUpDate,
	"followuptime":   FieldFollowUpTime,
	"followuptype":   FieldFollowUpType,
	"clientimageurl": FieldAvatar,
	"image":          FieldAvatar,
	"avatar":         FieldAvatar,
}

// DefaultHeaders is the header row used when a sheet has none.
var DefaultHeaders = []string{
	"Name", "Phone", "Email", "Profession", "City", "Location",
	"Status", "Notes", "Project Name", "Budget Range", "Property Type",
	"Follow Up Date", "Follow Up Time", "Follow Up Type", "Client Image URL",
}

// NormalizeHeader lower-cases a header and strips all whitespace.
func NormalizeHeader(header string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(header))
}

// LookupField resolves a header to a contact field.
func LookupField(header string) (Field, bool) {
	f, ok := synonyms[NormalizeHeader(header)]
	return f, ok
}

// ColumnMap is a header row resolved to fields, one entry per column.
type ColumnMap struct {
	fields []Field
}

// NewColumnMap resolves a header row. Unknown headers map to FieldNone.
func NewColumnMap(headers []string) *ColumnMap {
	fields := make([]Field, len(headers))
	for i, h := range headers {
		fields[i], _ = LookupField(h)
	}
	return &ColumnMap{fields: fields}
}

// Mapped returns how many columns resolved to a field.
func (m *ColumnMap) Mapped() int {
	n := 0
	for _, f := range m.fields {
		if f != FieldNone {
			n++
		}
	}
	return n
}

// Contact builds a contact from one data row. index is the zero-based data
// row position and only seeds the avatar fallback. ID is left empty.
func (m *ColumnMap) Contact(row []string, index int) models.Contact {
	var c models.Contact
	for i, f := range m.fields {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		setField(&c, f, value)
	}
	ApplyDefaults(&c, index)
	return c
}

// Row renders a contact back into this header order. Unknown columns are blank.
func (m *ColumnMap) Row(c models.Contact) []string {
	row := make([]string, len(m.fields))
	for i, f := range m.fields {
		row[i] = getField(c, f)
	}
	return row
}

// MapRow maps a single header+row pair.
func MapRow(headers, row []string, index int) models.Contact {
	return NewColumnMap(headers).Contact(row, index)
}

// RowForHeaders renders a contact for a header row.
func RowForHeaders(headers []string, c models.Contact) []string {
	return NewColumnMap(headers).Row(c)
}

func setField(c *models.Contact, f Field, value string) {
	switch f {
	case FieldName:
		c.Name = value
	case FieldPhone:
		c.Phone = value
	case FieldEmail:
		c.Email = value
	case FieldProfession:
		c.Profession = value
	case FieldCity:
		c.City = value
	case FieldLocation:
		c.Location = value
	case FieldStatus:
		c.Status = models.LeadStatus(value)
	case FieldNotes:
		c.Notes = value
	case FieldProjectName:
		c.ProjectName = value
	case FieldBudgetRange:
		c.BudgetRange = value
	case FieldPropertyType:
		c.PropertyType = value
	case FieldFollowUpDate:
		c.FollowUpDate = value
	case FieldFollowUpTime:
		c.FollowUpTime = value
	case FieldFollowUpType:
		c.FollowUpType = value
	case FieldAvatar:
		c.Avatar = value
	}
}

func getField(c models.Contact, f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldPhone:
		return c.Phone
	case FieldEmail:
		return c.Email
	case FieldProfession:
		return c.Profession
	case FieldCity:
		return c.City
	case FieldLocation:
		if c.Location == "" {
			return c.City
		}
		return c.Location
	case FieldStatus:
		if c.Status == "" {
			return string(models.StatusNewLead)
		}
		return string(c.Status)
	case FieldNotes:
		return c.Notes
	case FieldProjectName:
		return c.ProjectName
	case FieldBudgetRange:
		return c.BudgetRange
	case FieldPropertyType:
		return c.PropertyType
	case FieldFollowUpDate:
		return c.FollowUpDate
	case FieldFollowUpTime:
		return c.FollowUpTime
	case FieldFollowUpType:
		return c.FollowUpType
	case FieldAvatar:
		return c.Avatar
	}
	return ""
}

// ApplyDefaults fills derived fields in order: avatar, location, status.
func ApplyDefaults(c *models.Contact, index int) {
	if strings.TrimSpace(c.Avatar) == "" {
		c.Avatar = AvatarURL(c.Name, index)
	}
	if c.Location == "" {
		c.Location = c.City
	}
	c.Status, _ = models.ParseLeadStatus(string(c.Status))
}

// AvatarURL derives a placeholder image from the name with whitespace removed,
// or from the row index when the name is blank.
func AvatarURL(name string, index int) string {
	seed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	if seed == "" {
		seed = strconv.Itoa(index)
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", url.PathEscape(seed))
}
