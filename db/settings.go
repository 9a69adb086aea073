// ABOUTME: User settings and activity log persistence
// ABOUTME: Settings are one row per user, activity is append-only with a clear operation
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/solocrm/models"
)

// GetSettings returns the user's settings row, or nil when none is stored.
func (r *Repository) GetSettings(ctx context.Context, userID string) (*models.SettingsRecord, error) {
	var s models.SettingsRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, timezone, theme, notifications, updated_at
		FROM user_settings
		WHERE user_id = ?
	`, userID).Scan(&s.UserID, &s.Timezone, &s.Theme, &s.Notifications, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// UpsertSettings inserts or replaces the user's settings row.
func (r *Repository) UpsertSettings(ctx context.Context, userID string, rec models.SettingsRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timezone, theme, notifications, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			timezone = excluded.timezone,
			theme = excluded.theme,
			notifications = excluded.notifications,
			updated_at = excluded.updated_at
	`, userID, rec.Timezone, rec.Theme, rec.Notifications, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// InsertActivity appends an activity entry.
func (r *Repository) InsertActivity(ctx context.Context, rec models.ActivityRecord) error {
	metadata, err := marshalJSON(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, user_email, action, page, description, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.UserEmail, rec.Action, rec.Page, rec.Description, metadata, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivities returns up to limit entries, newest first.
func (r *Repository) ListActivities(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_email, action, page, description, metadata, timestamp
		FROM activity_log
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	entries := []models.ActivityRecord{}
	for rows.Next() {
		var a models.ActivityRecord
		var metadata sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserEmail, &a.Action, &a.Page, &a.Description, &metadata, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if metadata.Valid && metadata.String != "" && metadata.String != "null" {
			if err := json.Unmarshal([]byte(metadata.String), &a.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// ClearActivities removes every entry for the user.
func (r *Repository) ClearActivities(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activity_log WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	return nil
}
