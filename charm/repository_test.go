// ABOUTME: Tests for the charm KV repository on a badger-backed test client
// ABOUTME: Mirrors the SQLite repository tests for ordering and user scoping
package charm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryContacts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewTestClient(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older, err := repo.InsertContact(ctx, "u1", models.ContactRecord{FirstName: "Old", LastName: "A", CreatedAt: base})
	require.NoError(t, err)
	_, err = repo.InsertContact(ctx, "u1", models.ContactRecord{FirstName: "New", LastName: "B", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.InsertContact(ctx, "u2", models.ContactRecord{FirstName: "Other", LastName: "C"})
	require.NoError(t, err)

	list, err := repo.ListContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].FirstName)
	assert.Equal(t, []string{}, list[1].Tags)

	older.Company = "Acme"
	updated, err := repo.UpdateContact(ctx, "u1", older)
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(base))
	assert.Equal(t, "Acme", updated.Company)

	_, err = repo.UpdateContact(ctx, "u2", older)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	require.NoError(t, repo.DeleteContact(ctx, "u1", older.ID))
	assert.True(t, errors.Is(repo.DeleteContact(ctx, "u1", older.ID), models.ErrNotFound))
}

func TestRepositoryInteractionsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewTestClient(t))

	for _, d := range []string{"2024-01-01T12:00:00.000Z", "2024-03-01T12:00:00.000Z", "2024-02-01T12:00:00.000Z"} {
		_, err := repo.InsertInteraction(ctx, "u1", models.InteractionRecord{ContactID: "c", Type: "Email", Date: d, Notes: "n"})
		require.NoError(t, err)
	}
	list, err := repo.ListInteractions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", list[0].Date)
	assert.Equal(t, "2024-01-01T12:00:00.000Z", list[2].Date)
}

func TestRepositorySettingsAndActivity(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewTestClient(t))

	got, err := repo.GetSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.UpsertSettings(ctx, "u1", models.SettingsRecord{Timezone: "Asia/Tokyo", Theme: "dark"}))
	got, err = repo.GetSettings(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asia/Tokyo", got.Timezone)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"01A", "01B", "01C"} {
		require.NoError(t, repo.InsertActivity(ctx, models.ActivityRecord{
			ID: id, UserID: "u1", Action: "test", Description: id, Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	entries, err := repo.ListActivities(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "01C", entries[0].ID)

	require.NoError(t, repo.ClearActivities(ctx, "u1"))
	entries, err = repo.ListActivities(ctx, "u1", 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClientHas(t *testing.T) {
	c := NewTestClient(t)
	ok, err := c.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set([]byte("k"), []byte("v")))
	ok, err = c.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := c.KeysWithPrefix([]byte("k"))
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.True(t, c.IsConnected())
}

func TestRepositoryUserIDsDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewTestClient(t))

	_, err := repo.InsertContact(ctx, "team/contacts", models.ContactRecord{FirstName: "Nested", LastName: "User"})
	require.NoError(t, err)
	require.NoError(t, repo.InsertActivity(ctx, models.ActivityRecord{ID: "01A", UserID: "team/activity", Action: "test"}))

	list, err := repo.ListContacts(ctx, "team")
	require.NoError(t, err)
	assert.Empty(t, list)

	entries, err := repo.ListActivities(ctx, "team", 50)
	require.NoError(t, err)
	assert.Empty(t, entries)

	list, err = repo.ListContacts(ctx, "team/contacts")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nested", list[0].FirstName)
}

func TestRepositoryListDropsForeignRecords(t *testing.T) {
	ctx := context.Background()
	client := NewTestClient(t)
	repo := NewRepository(client)

	data, err := json.Marshal(models.ContactRecord{ID: "x", UserID: "u2", FirstName: "Planted", LastName: "Record"})
	require.NoError(t, err)
	require.NoError(t, client.Set(recordKey("u1", contactsCollection, "x"), data))

	list, err := repo.ListContacts(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClientSyncIfStale(t *testing.T) {
	c := NewTestClient(t)
	store := c.kv.(*badgerKV)

	c.SyncIfStale()
	assert.Equal(t, 0, store.syncs, "zero threshold never syncs")

	c.config.StaleThreshold = time.Hour
	c.SyncIfStale()
	assert.Equal(t, 1, store.syncs)
	assert.False(t, c.LastSync().IsZero())

	c.SyncIfStale()
	assert.Equal(t, 1, store.syncs, "fresh data is not synced again")

	c.lastSync = time.Now().Add(-2 * time.Hour)
	_, err := NewRepository(c).ListContacts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.syncs)
}
