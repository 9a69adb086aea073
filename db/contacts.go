// ABOUTME: Contact database operations
// ABOUTME: Handles user-scoped CRUD for contacts with JSON-encoded tags
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/solocrm/models"
)

var errNotFound = models.ErrNotFound

const contactColumns = `id, user_id, first_name, last_name, email, phone, company, position, notes, tags, follow_up_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (models.ContactRecord, error) {
	var c models.ContactRecord
	var tags sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Company, &c.Position, &c.Notes, &tags, &c.FollowUpDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	if tags.Valid && tags.String != "" && tags.String != "null" {
		if err := json.Unmarshal([]byte(tags.String), &c.Tags); err != nil {
			return c, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return c, nil
}

// ListContacts returns the user's contacts, newest first.
func (r *Repository) ListContacts(ctx context.Context, userID string) ([]models.ContactRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.ContactRecord{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact returns one of the user's contacts or models.ErrNotFound.
func (r *Repository) GetContact(ctx context.Context, userID, id string) (models.ContactRecord, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = ? AND user_id = ?
	`, id, userID))
	if err == sql.ErrNoRows {
		return c, fmt.Errorf("contact %s: %w", id, errNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// InsertContact stores a new contact, assigning an id and timestamps when absent.
func (r *Repository) InsertContact(ctx context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	tags, err := marshalJSON(rec.Tags)
	if err != nil {
		return rec, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.FirstName, rec.LastName, rec.Email, rec.Phone, rec.Company,
		rec.Position, rec.Notes, tags, rec.FollowUpDate, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to insert contact: %w", err)
	}
	return rec, nil
}

// UpdateContact overwrites the editable fields of an existing contact.
func (r *Repository) UpdateContact(ctx context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error) {
	rec.UserID = userID
	rec.UpdatedAt = time.Now().UTC()
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	tags, err := marshalJSON(rec.Tags)
	if err != nil {
		return rec, fmt.Errorf("failed to encode tags: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET first_name = ?, last_name = ?, email = ?, phone = ?, company = ?, position = ?,
			notes = ?, tags = ?, follow_up_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, rec.FirstName, rec.LastName, rec.Email, rec.Phone, rec.Company, rec.Position,
		rec.Notes, tags, rec.FollowUpDate, rec.UpdatedAt, rec.ID, userID)
	if err != nil {
		return rec, fmt.Errorf("failed to update contact: %w", err)
	}
	if err := checkAffected(result, "contact "+rec.ID); err != nil {
		return rec, err
	}
	return r.GetContact(ctx, userID, rec.ID)
}

// DeleteContact removes a contact. Its interactions are left in place.
func (r *Repository) DeleteContact(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return checkAffected(result, "contact "+id)
}
