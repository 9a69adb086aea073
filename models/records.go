// ABOUTME: Remote record shapes as stored by persistence backends
// ABOUTME: Field names follow the backend's snake_case columns
package models

import "time"

// ContactRecord is a contacts row.
type ContactRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	Notes        string    `json:"notes"`
	Tags         []string  `json:"tags"`
	FollowUpDate string    `json:"follow_up_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InteractionRecord is an interactions row.
type InteractionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ContactID    string    `json:"contact_id"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Notes        string    `json:"notes"`
	FollowUpDate string    `json:"follow_up_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// SettingsRecord is a user_settings row.
type SettingsRecord struct {
	UserID        string    `json:"user_id"`
	Timezone      string    `json:"timezone"`
	Theme         string    `json:"theme"`
	Notifications bool      `json:"notifications"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ActivityRecord is an activity_log row.
type ActivityRecord struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserEmail   string         `json:"user_email"`
	Action      string         `json:"action"`
	Page        string         `json:"page"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	Timestamp   time.Time      `json:"timestamp"`
}
