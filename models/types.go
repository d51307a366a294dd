// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, LeadStatus, follow-up types, and sync journal records
package models

import (
	"strings"
	"time"
)

// LeadStatus is a pipeline stage for a lead.
type LeadStatus string

const (
	StatusNewLead      LeadStatus = "New Lead"
	StatusHot          LeadStatus = "Hot"
	StatusFollowUp     LeadStatus = "Follow-up"
	StatusNegotiation  LeadStatus = "Negotiation"
	StatusClosed       LeadStatus = "Closed"
	StatusViewing      LeadStatus = "Viewing"
	StatusWarmProspect LeadStatus = "Warm Prospect"
)

// LeadStatuses lists every recognized status in pipeline order.
var LeadStatuses = []LeadStatus{
	StatusNewLead,
	StatusWarmProspect,
	StatusHot,
	StatusFollowUp,
	StatusViewing,
	StatusNegotiation,
	StatusClosed,
}

// ParseLeadStatus resolves a free-form status label. Matching ignores case,
// whitespace, hyphens and underscores. ok is false for blank or unknown labels,
// in which case StatusNewLead is returned.
func ParseLeadStatus(label string) (LeadStatus, bool) {
	key := statusKey(label)
	if key == "" {
		return StatusNewLead, false
	}
	for _, s := range LeadStatuses {
		if statusKey(string(s)) == key {
			return s, true
		}
	}
	return StatusNewLead, false
}

// Valid reports whether s is one of the recognized statuses.
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the status after s in pipeline order, wrapping around.
func (s LeadStatus) Next() LeadStatus {
	for i, known := range LeadStatuses {
		if s == known {
			return LeadStatuses[(i+1)%len(LeadStatuses)]
		}
	}
	return StatusNewLead
}

func statusKey(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(label))
}

// Follow-up type constants.
const (
	FollowUpCall    = "Call"
	FollowUpMeeting = "Meeting"
	FollowUpVisit   = "Visit"
)

// Contact is a lead tracked by an agent. JSON names match the spreadsheet
// script contract.
type Contact struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Profession   string     `json:"profession"`
	City         string     `json:"city"`
	Location     string     `json:"location"`
	Status       LeadStatus `json:"status"`
	Avatar       string     `json:"avatar"`
	ProjectName  string     `json:"projectName,omitempty"`
	PropertyType string     `json:"propertyType,omitempty"`
	BudgetRange  string     `json:"budgetRange,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	FollowUpDate string     `json:"followUpDate,omitempty"`
	FollowUpTime string     `json:"followUpTime,omitempty"`
	FollowUpType string     `json:"followUpType,omitempty"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// Sync source service names.
const (
	ServiceSheets = "sheets"
	ServiceScript = "script"
	ServiceLoad   = "load"
)

type SyncState struct {
	Service      string     `json:"service"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SyncLog is one journaled load attempt or write dispatch.
type SyncLog struct {
	ID            string    `json:"id"`
	SourceService string    `json:"source_service"`
	Action        string    `json:"action"`
	EntityID      string    `json:"entity_id,omitempty"`
	Outcome       string    `json:"outcome"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
