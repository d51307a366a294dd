package viz

import (
	"testing"
	"time"

	"github.com/harperreed/leadbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

func sampleContacts() []models.Contact {
	return []models.Contact{
		{ID: "1", Name: "Robert Fox", Status: models.StatusHot, City: "New York", PropertyType: "Condo", FollowUpDate: "2026-03-10", FollowUpTime: "10:00 AM", FollowUpType: models.FollowUpCall},
		{ID: "2", Name: "Jane Cooper", Status: models.StatusClosed, City: "New York", PropertyType: "Villa", FollowUpDate: "2026-03-12"},
		{ID: "3", Name: "Cody Fisher", Status: models.StatusHot, City: "Austin", FollowUpDate: "2026-03-01"},
		{ID: "4", Name: "Esther Howard", Status: models.StatusViewing, City: "Austin", PropertyType: "Condo", FollowUpDate: "next week"},
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleContacts(), now)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.HotLeads)
	assert.Equal(t, 1, stats.Closed)
	assert.InDelta(t, 0.25, stats.ClosedRate, 0.0001)
	assert.Equal(t, 1, stats.ByStatus[models.StatusViewing])

	assert.Equal(t, []Bucket{{"Austin", 2}, {"New York", 2}}, stats.TopCities)
	assert.Equal(t, []Bucket{{"Condo", 2}, {"Villa", 1}}, stats.PropertyMix)

	require.Len(t, stats.Upcoming, 2, "past and unparseable dates are skipped")
	assert.Equal(t, "Robert Fox", stats.Upcoming[0].Name)
	assert.Equal(t, "Jane Cooper", stats.Upcoming[1].Name)
	assert.Equal(t, 1, stats.DueToday)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, now)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ClosedRate)
	assert.Empty(t, stats.Upcoming)
}

func TestParseFollowUpDate(t *testing.T) {
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-03-12", "03/12/2026", "3/12/2026", "Mar 12, 2026", " 2026-03-12 "} {
		got, ok := ParseFollowUpDate(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseFollowUpDate("")
	assert.False(t, ok)
	_, ok = ParseFollowUpDate("tomorrow")
	assert.False(t, ok)
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(ComputeStats(sampleContacts(), now))

	assert.Contains(t, out, "LEADBOOK DASHBOARD")
	assert.Contains(t, out, "PIPELINE OVERVIEW")
	assert.Contains(t, out, "Hot            ██████████   2")
	assert.Contains(t, out, "Closed         █████░░░░░   1")
	assert.Contains(t, out, "4 clients")
	assert.Contains(t, out, "1 due today")
	assert.Contains(t, out, "Robert Fox (Hot)")
}

func TestRenderDashboard_NoFollowUps(t *testing.T) {
	out := RenderDashboard(ComputeStats(nil, now))
	assert.Contains(t, out, "No follow-ups scheduled")
	assert.NotContains(t, out, "TOP CITIES")
}
