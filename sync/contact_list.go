// ABOUTME: In-memory contact list shared by every view of a session
// ABOUTME: Readers get copies; mutation is reserved to the sync and write coordinators
package sync

import (
	"strconv"
	"strings"
	gosync "sync"

	"github.com/harperreed/leadbook/models"
)

// ContactList is the single owned list of contacts. Exported methods only
// read; mutators are unexported so the coordinators are the only writers.
type ContactList struct {
	mu       gosync.RWMutex
	contacts []models.Contact
}

// NewContactList creates a list, enforcing unique ids.
func NewContactList(initial ...models.Contact) *ContactList {
	l := &ContactList{}
	l.replaceAll(initial)
	return l
}

// All returns a copy of the contacts in display order.
func (l *ContactList) All() []models.Contact {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Contact, len(l.contacts))
	copy(out, l.contacts)
	return out
}

// Len returns the number of contacts.
func (l *ContactList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.contacts)
}

// Get finds a contact by id.
func (l *ContactList) Get(id string) (models.Contact, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.contacts[i], true
	}
	return models.Contact{}, false
}

// Filter returns contacts matching a status (if set) and a case-insensitive
// query over name, phone, email, city and location.
func (l *ContactList) Filter(query string, status models.LeadStatus) []models.Contact {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Contact
	for _, c := range l.All() {
		if status != "" && c.Status != status {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c models.Contact, query string) bool {
	for _, v := range []string{c.Name, c.Phone, c.Email, c.City, c.Location} {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

func (l *ContactList) indexOf(id string) int {
	for i := range l.contacts {
		if l.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *ContactList) replaceAll(contacts []models.Contact) {
	fresh := make([]models.Contact, len(contacts))
	copy(fresh, contacts)
	ensureUniqueIDs(fresh)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.contacts = fresh
}

// prepend inserts c at the front. Caller guarantees c.ID is unused.
func (l *ContactList) prepend(c models.Contact) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contacts = append([]models.Contact{c}, l.contacts...)
}

// upsert replaces the entry with c.ID in place, or prepends c when absent.
// Returns true when an existing entry was replaced.
func (l *ContactList) upsert(c models.Contact) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(c.ID); i >= 0 {
		l.contacts[i] = c
		return true
	}
	l.contacts = append([]models.Contact{c}, l.contacts...)
	return false
}

func (l *ContactList) setStatus(id string, status models.LeadStatus) (models.Contact, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return models.Contact{}, false
	}
	l.contacts[i].Status = status
	return l.contacts[i], true
}

func (l *ContactList) remove(id string) (models.Contact, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return models.Contact{}, false
	}
	removed := l.contacts[i]
	l.contacts = append(l.contacts[:i], l.contacts[i+1:]...)
	return removed, true
}

func (l *ContactList) has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(id) >= 0
}

// ensureUniqueIDs fills blank ids with the 1-based position and suffixes
// duplicates so every id in the slice is distinct.
func ensureUniqueIDs(contacts []models.Contact) {
	seen := make(map[string]bool, len(contacts))
	for i := range contacts {
		id := strings.TrimSpace(contacts[i].ID)
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		base := id
		for n := 2; seen[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		seen[id] = true
		contacts[i].ID = id
	}
}
