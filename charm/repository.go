// ABOUTME: Charm KV persistence for a user's CRM records
// ABOUTME: Records are JSON values under <user>/<collection>/<id> keys
package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/solocrm/models"
)

const (
	contactsCollection     = "contacts"
	interactionsCollection = "interactions"
	activityCollection     = "activity"
	settingsKey            = "settings"
)

// Repository stores CRM records in the charm KV.
type Repository struct {
	client *Client
}

// NewRepository wraps a charm client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Client returns the underlying charm client.
func (r *Repository) Client() *Client {
	return r.client
}

// userSegment escapes the user id so one user's keys never prefix another's.
func userSegment(userID string) string {
	return url.PathEscape(userID)
}

func recordKey(userID, collection, id string) []byte {
	return []byte(userSegment(userID) + "/" + collection + "/" + id)
}

func collectionPrefix(userID, collection string) []byte {
	return []byte(userSegment(userID) + "/" + collection + "/")
}

func settingsRecordKey(userID string) []byte {
	return []byte(userSegment(userID) + "/" + settingsKey)
}

func (r *Repository) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := r.client.Set(key, data); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// get decodes the value at key into v, returning models.ErrNotFound when absent.
func (r *Repository) get(key []byte, v any) error {
	data, err := r.client.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return nil
}

// listCollection decodes every record under the user's collection prefix, dropping any owned by someone else.
func listCollection[T any](r *Repository, userID, collection string, owner func(*T) string) ([]T, error) {
	r.client.SyncIfStale()
	keys, err := r.client.KeysWithPrefix(collectionPrefix(userID, collection))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		var rec T
		if err := r.get(k, &rec); err != nil {
			// a key deleted between listing and reading is skipped
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if owner(&rec) != userID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Repository) remove(key []byte) error {
	ok, err := r.client.Has(key)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	if err := r.client.Delete(key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// ListContacts returns the user's contacts, newest first.
func (r *Repository) ListContacts(_ context.Context, userID string) ([]models.ContactRecord, error) {
	recs, err := listCollection(r, userID, contactsCollection, func(c *models.ContactRecord) string { return c.UserID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return recs, nil
}

// InsertContact stores a new contact.
func (r *Repository) InsertContact(_ context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, r.put(recordKey(userID, contactsCollection, rec.ID), rec)
}

// UpdateContact overwrites an existing contact, keeping its creation time.
func (r *Repository) UpdateContact(_ context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error) {
	key := recordKey(userID, contactsCollection, rec.ID)
	var existing models.ContactRecord
	if err := r.get(key, &existing); err != nil {
		return rec, err
	}
	rec.UserID = userID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, r.put(key, rec)
}

// DeleteContact removes a contact.
func (r *Repository) DeleteContact(_ context.Context, userID, id string) error {
	return r.remove(recordKey(userID, contactsCollection, id))
}

// ListInteractions returns the user's interactions ordered by date, newest first.
func (r *Repository) ListInteractions(_ context.Context, userID string) ([]models.InteractionRecord, error) {
	recs, err := listCollection(r, userID, interactionsCollection, func(i *models.InteractionRecord) string { return i.UserID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// InsertInteraction stores a new interaction.
func (r *Repository) InsertInteraction(_ context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec, r.put(recordKey(userID, interactionsCollection, rec.ID), rec)
}

// UpdateInteraction overwrites an existing interaction.
func (r *Repository) UpdateInteraction(_ context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error) {
	key := recordKey(userID, interactionsCollection, rec.ID)
	var existing models.InteractionRecord
	if err := r.get(key, &existing); err != nil {
		return rec, err
	}
	rec.UserID = userID
	rec.CreatedAt = existing.CreatedAt
	return rec, r.put(key, rec)
}

// DeleteInteraction removes an interaction.
func (r *Repository) DeleteInteraction(_ context.Context, userID, id string) error {
	return r.remove(recordKey(userID, interactionsCollection, id))
}

// GetSettings returns the user's settings, or nil when none are stored.
func (r *Repository) GetSettings(_ context.Context, userID string) (*models.SettingsRecord, error) {
	var rec models.SettingsRecord
	err := r.get(settingsRecordKey(userID), &rec)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertSettings replaces the user's settings.
func (r *Repository) UpsertSettings(_ context.Context, userID string, rec models.SettingsRecord) error {
	rec.UserID = userID
	rec.UpdatedAt = time.Now().UTC()
	return r.put(settingsRecordKey(userID), rec)
}

// InsertActivity appends an activity entry. Entry ids are ULIDs, so key order is time order.
func (r *Repository) InsertActivity(_ context.Context, rec models.ActivityRecord) error {
	return r.put(recordKey(rec.UserID, activityCollection, rec.ID), rec)
}

// ListActivities returns up to limit entries, newest first.
func (r *Repository) ListActivities(_ context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	recs, err := listCollection(r, userID, activityCollection, func(a *models.ActivityRecord) string { return a.UserID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		}
		return recs[i].ID > recs[j].ID
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// ClearActivities deletes every activity entry for the user.
func (r *Repository) ClearActivities(_ context.Context, userID string) error {
	keys, err := r.client.KeysWithPrefix(collectionPrefix(userID, activityCollection))
	if err != nil {
		return fmt.Errorf("failed to list activity: %w", err)
	}
	for _, k := range keys {
		if err := r.client.Delete(k); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
	}
	return nil
}
