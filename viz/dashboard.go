// ABOUTME: Pipeline statistics computed from the contact list
// ABOUTME: Renders the ASCII dashboard shown by the stats command
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/leadbook/models"
)

// DashboardStats summarizes the contact list.
type DashboardStats struct {
	Total       int
	ByStatus    map[models.LeadStatus]int
	HotLeads    int
	Closed      int
	ClosedRate  float64
	TopCities   []Bucket
	PropertyMix []Bucket

	// Follow-ups on or after the reference day, soonest first
	Upcoming []FollowUp
	DueToday int
}

// Bucket is a labelled count.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FollowUp is a scheduled touchpoint with a contact.
type FollowUp struct {
	ContactID string
	Name      string
	Status    models.LeadStatus
	Date      time.Time
	Time      string
	Type      string
}

// Layouts accepted for follow-up dates.
var followUpLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

const (
	topBuckets   = 5
	upcomingSize = 5
)

// ComputeStats builds dashboard stats as of now.
func ComputeStats(contacts []models.Contact, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		Total:    len(contacts),
		ByStatus: make(map[models.LeadStatus]int),
	}

	cities := make(map[string]int)
	properties := make(map[string]int)
	today := truncateDay(now)

	for _, c := range contacts {
		status := c.Status
		if !status.Valid() {
			status = models.StatusNewLead
		}
		stats.ByStatus[status]++

		if city := strings.TrimSpace(c.City); city != "" {
			cities[city]++
		}
		if pt := strings.TrimSpace(c.PropertyType); pt != "" {
			properties[pt]++
		}

		date, ok := ParseFollowUpDate(c.FollowUpDate)
		if !ok || date.Before(today) {
			continue
		}
		if date.Equal(today) {
			stats.DueToday++
		}
		stats.Upcoming = append(stats.Upcoming, FollowUp{
			ContactID: c.ID,
			Name:      c.Name,
			Status:    status,
			Date:      date,
			Time:      c.FollowUpTime,
			Type:      c.FollowUpType,
		})
	}

	stats.HotLeads = stats.ByStatus[models.StatusHot]
	stats.Closed = stats.ByStatus[models.StatusClosed]
	if stats.Total > 0 {
		stats.ClosedRate = float64(stats.Closed) / float64(stats.Total)
	}
	stats.TopCities = topN(cities, topBuckets)
	stats.PropertyMix = topN(properties, topBuckets)

	sort.SliceStable(stats.Upcoming, func(i, j int) bool {
		return stats.Upcoming[i].Date.Before(stats.Upcoming[j].Date)
	})
	if len(stats.Upcoming) > upcomingSize {
		stats.Upcoming = stats.Upcoming[:upcomingSize]
	}

	return stats
}

// ParseFollowUpDate reads a follow-up date in any accepted layout.
func ParseFollowUpDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range followUpLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// topN orders counts descending, ties alphabetically.
func topN(counts map[string]int, n int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  LEADBOOK DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.ByStatus)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d clients  🔥 %d hot  ✅ %d closed (%.0f%%)\n\n",
		stats.Total, stats.HotLeads, stats.Closed, stats.ClosedRate*100))

	if len(stats.TopCities) > 0 {
		out.WriteString("TOP CITIES\n")
		renderBuckets(&out, stats.TopCities)
		out.WriteString("\n")
	}

	if len(stats.PropertyMix) > 0 {
		out.WriteString("PROPERTY TYPES\n")
		renderBuckets(&out, stats.PropertyMix)
		out.WriteString("\n")
	}

	out.WriteString("UPCOMING FOLLOW-UPS\n")
	if len(stats.Upcoming) == 0 {
		out.WriteString("  No follow-ups scheduled\n")
		return out.String()
	}
	if stats.DueToday > 0 {
		out.WriteString(fmt.Sprintf("  ⚠️  %d due today\n", stats.DueToday))
	}
	for _, f := range stats.Upcoming {
		when := f.Date.Format("Jan 02")
		if f.Time != "" {
			when += " " + f.Time
		}
		kind := f.Type
		if kind == "" {
			kind = "-"
		}
		out.WriteString(fmt.Sprintf("  %-14s %-8s %s (%s)\n", when, kind, f.Name, f.Status))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, byStatus map[models.LeadStatus]int) {
	// Find max count for scaling
	maxCount := 0
	for _, count := range byStatus {
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, status := range models.LeadStatuses {
		count := byStatus[status]
		out.WriteString(fmt.Sprintf("  %-14s %s  %2d\n", status, bar(count, maxCount), count))
	}
}

func renderBuckets(out *strings.Builder, buckets []Bucket) {
	maxCount := 1
	if len(buckets) > 0 && buckets[0].Count > 0 {
		maxCount = buckets[0].Count
	}
	for _, b := range buckets {
		out.WriteString(fmt.Sprintf("  %-14s %s  %2d\n", b.Label, bar(b.Count, maxCount), b.Count))
	}
}

// bar draws a 10-block bar scaled to maxCount.
func bar(count, maxCount int) string {
	barLength := (count * 10) / maxCount
	if barLength > 10 {
		barLength = 10
	}
	return strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
}
