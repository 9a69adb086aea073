// ABOUTME: Interaction database operations
// ABOUTME: Handles user-scoped CRUD for the interaction log
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/solocrm/models"
)

const interactionColumns = `id, user_id, contact_id, type, date, notes, follow_up_date, created_at`

func scanInteraction(row rowScanner) (models.InteractionRecord, error) {
	var i models.InteractionRecord
	err := row.Scan(&i.ID, &i.UserID, &i.ContactID, &i.Type, &i.Date, &i.Notes, &i.FollowUpDate, &i.CreatedAt)
	return i, err
}

// ListInteractions returns the user's interactions ordered by date, newest first.
func (r *Repository) ListInteractions(ctx context.Context, userID string) ([]models.InteractionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+interactionColumns+`
		FROM interactions
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	interactions := []models.InteractionRecord{}
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, i)
	}
	return interactions, rows.Err()
}

// GetInteraction returns one of the user's interactions or models.ErrNotFound.
func (r *Repository) GetInteraction(ctx context.Context, userID, id string) (models.InteractionRecord, error) {
	i, err := scanInteraction(r.db.QueryRowContext(ctx, `
		SELECT `+interactionColumns+`
		FROM interactions
		WHERE id = ? AND user_id = ?
	`, id, userID))
	if err == sql.ErrNoRows {
		return i, fmt.Errorf("interaction %s: %w", id, errNotFound)
	}
	if err != nil {
		return i, fmt.Errorf("failed to get interaction: %w", err)
	}
	return i, nil
}

// InsertInteraction stores a new interaction.
func (r *Repository) InsertInteraction(ctx context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.ContactID, rec.Type, rec.Date, rec.Notes, rec.FollowUpDate, rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to insert interaction: %w", err)
	}
	return rec, nil
}

// UpdateInteraction overwrites the editable fields of an existing interaction.
func (r *Repository) UpdateInteraction(ctx context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE interactions
		SET contact_id = ?, type = ?, date = ?, notes = ?, follow_up_date = ?
		WHERE id = ? AND user_id = ?
	`, rec.ContactID, rec.Type, rec.Date, rec.Notes, rec.FollowUpDate, rec.ID, userID)
	if err != nil {
		return rec, fmt.Errorf("failed to update interaction: %w", err)
	}
	if err := checkAffected(result, "interaction "+rec.ID); err != nil {
		return rec, err
	}
	return r.GetInteraction(ctx, userID, rec.ID)
}

// DeleteInteraction removes an interaction.
func (r *Repository) DeleteInteraction(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM interactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}
	return checkAffected(result, "interaction "+id)
}
