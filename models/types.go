// ABOUTME: Data models for CRM entities in the shape the session Store holds
// ABOUTME: Defines Contact, Interaction, UserSettings, Activity and their enums
package models

import (
	"strings"
	"time"
)

// Contact is a person record as held in the session Store and carried by exports.
type Contact struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	Notes        string    `json:"notes"`
	Tags         []string  `json:"tags"`
	FollowUpDate string    `json:"followUpDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "First Last".
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasTag reports whether the contact carries exactly this tag.
func (c Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Interaction is a logged touchpoint with a contact. Date and FollowUpDate hold
// persisted calendar values, not instants.
type Interaction struct {
	ID           string          `json:"id"`
	ContactID    string          `json:"contactId"`
	Type         InteractionType `json:"type"`
	Date         string          `json:"date"`
	Notes        string          `json:"notes"`
	FollowUpDate string          `json:"followUpDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// InteractionType is the closed set of interaction kinds.
type InteractionType string

const (
	InteractionEmail    InteractionType = "Email"
	InteractionPhone    InteractionType = "Phone"
	InteractionMeeting  InteractionType = "Meeting"
	InteractionEvent    InteractionType = "Event"
	InteractionFollowUp InteractionType = "Follow-up"
	InteractionOther    InteractionType = "Other"
)

// InteractionTypes lists every type in display order.
var InteractionTypes = []InteractionType{
	InteractionEmail,
	InteractionPhone,
	InteractionMeeting,
	InteractionEvent,
	InteractionFollowUp,
	InteractionOther,
}

// ParseInteractionType matches a type name case-insensitively.
func ParseInteractionType(s string) (InteractionType, error) {
	s = strings.TrimSpace(s)
	for _, t := range InteractionTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	if strings.EqualFold(s, "followup") || strings.EqualFold(s, "follow_up") {
		return InteractionFollowUp, nil
	}
	return "", &ValidationError{Field: "type", Message: "Unknown interaction type: " + s}
}

// Valid reports whether t is one of the known types.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SortKey selects the contact list ordering.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByCompany SortKey = "company"
	SortByDate    SortKey = "date"
)

// SortKeys lists the keys in cycling order.
var SortKeys = []SortKey{SortByName, SortByCompany, SortByDate}

// ParseSortKey returns the matching key or an error for unknown input.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", &ValidationError{Field: "sortBy", Message: "Unknown sort key: " + s}
}

// Next returns the key after k, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortByName
}

// Theme values accepted by UserSettings.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// UserSettings are the per-user preferences held by the backend.
type UserSettings struct {
	Timezone      string `json:"timezone"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// DefaultSettings returns the settings used when a user has none stored.
func DefaultSettings(timezone string) UserSettings {
	return UserSettings{
		Timezone:      timezone,
		Theme:         ThemeLight,
		Notifications: true,
	}
}

// Activity is one entry of the user's activity log.
type Activity struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	UserEmail   string         `json:"userEmail"`
	Action      string         `json:"action"`
	Page        string         `json:"page"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// User is an authenticated identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ParseTags splits comma-separated input, trimming entries and dropping empties.
func ParseTags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags is the inverse used to prefill forms.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
