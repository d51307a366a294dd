// ABOUTME: Contact duplicate detection
// ABOUTME: Finds existing clients by email or phone before a new one is added
package sync

import (
	"strings"
	"unicode"

	"github.com/harperreed/leadbook/models"
)

// minPhoneDigits keeps short fragments like extensions from matching.
const minPhoneDigits = 7

type ContactMatcher struct {
	byEmail map[string]models.Contact
	byPhone map[string]models.Contact
}

// NewContactMatcher creates a matcher from existing contacts.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]models.Contact),
		byPhone: make(map[string]models.Contact),
	}
	for _, c := range contacts {
		m.AddContact(c)
	}
	return m
}

// FindMatch looks for an existing contact with the same email or phone.
// Email wins when both match different contacts.
func (m *ContactMatcher) FindMatch(c models.Contact) (models.Contact, bool) {
	if email := normalizeEmail(c.Email); email != "" {
		if found, ok := m.byEmail[email]; ok {
			return found, true
		}
	}
	if phone := normalizePhone(c.Phone); phone != "" {
		if found, ok := m.byPhone[phone]; ok {
			return found, true
		}
	}
	return models.Contact{}, false
}

// AddContact indexes a contact. The first contact seen for a key is kept.
func (m *ContactMatcher) AddContact(c models.Contact) {
	if email := normalizeEmail(c.Email); email != "" {
		if _, ok := m.byEmail[email]; !ok {
			m.byEmail[email] = c
		}
	}
	if phone := normalizePhone(c.Phone); phone != "" {
		if _, ok := m.byPhone[phone]; !ok {
			m.byPhone[phone] = c
		}
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone keeps digits only, or returns "" when too few remain.
func normalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) < minPhoneDigits {
		return ""
	}
	return digits
}
