package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/solocrm/charm"
	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSource(t *testing.T) *db.Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := db.Open(filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	_, err = repo.InsertContact(ctx, "u1", models.ContactRecord{ID: "c1", FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)
	_, err = repo.InsertContact(ctx, "other", models.ContactRecord{ID: "c2", FirstName: "Not", LastName: "Mine"})
	require.NoError(t, err)
	_, err = repo.InsertInteraction(ctx, "u1", models.InteractionRecord{
		ID: "i1", ContactID: "c1", Type: "Email", Date: "2024-03-01T12:00:00.000Z", Notes: "hello",
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpsertSettings(ctx, "u1", models.SettingsRecord{
		UserID: "u1", Timezone: "Europe/London", Theme: "dark", Notifications: true, UpdatedAt: time.Now(),
	}))
	require.NoError(t, repo.InsertActivity(ctx, models.ActivityRecord{
		ID: "a1", UserID: "u1", Action: "create", Description: "Created contact Ann Lee", Timestamp: time.Now().UTC(),
	}))
	return repo
}

func TestMigrateCopiesOneUser(t *testing.T) {
	ctx := context.Background()
	src := seedSource(t)
	dst := charm.NewRepository(charm.NewTestClient(t))

	summary, err := migrate(ctx, src, dst, "u1", false, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Summary{Contacts: 1, Interactions: 1, Activities: 1, Settings: true}, summary)

	contacts, err := dst.ListContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "c1", contacts[0].ID)

	settings, err := dst.GetSettings(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "dark", settings.Theme)

	others, err := dst.ListContacts(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, others)

	again, err := migrate(ctx, src, dst, "u1", false, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Contacts)
	assert.Equal(t, 3, again.Skipped)
}

func TestMigrateDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	src := seedSource(t)
	dst := charm.NewRepository(charm.NewTestClient(t))

	summary, err := migrate(ctx, src, dst, "u1", true, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Contacts)

	contacts, err := dst.ListContacts(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crm.db")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	at := time.Date(2024, 3, 6, 15, 4, 5, 0, time.UTC)
	require.NoError(t, backupFile(path, at))

	data, err := os.ReadFile(path + ".backup.20240306-150405")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	assert.NoError(t, backupFile(filepath.Join(dir, "missing.db"), at))
}
