// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email to prevent duplicates during import
package sync

import (
	"strings"

	"github.com/harperreed/solocrm/models"
)

type ContactMatcher struct {
	byEmail map[string]models.Contact
}

// NewContactMatcher creates a matcher from existing contacts.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]models.Contact),
	}
	for _, c := range contacts {
		m.AddContact(c)
	}
	return m
}

// FindMatch looks for an existing contact by email.
func (m *ContactMatcher) FindMatch(email string) (models.Contact, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return models.Contact{}, false
	}

	contact, found := m.byEmail[normalized]
	return contact, found
}

// AddContact records a contact so later lookups in the same run see it.
func (m *ContactMatcher) AddContact(contact models.Contact) {
	if email := normalizeEmail(contact.Email); email != "" {
		m.byEmail[email] = contact
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
