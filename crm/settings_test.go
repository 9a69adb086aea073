package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct{ values []string }

func (r *recordingSink) SetTimezone(tz string) error {
	r.values = append(r.values, tz)
	return nil
}

func TestDefaultSettings(t *testing.T) {
	s, _ := newSession(t)
	settings := s.Settings()
	assert.Equal(t, "UTC", settings.Timezone)
	assert.Equal(t, models.ThemeLight, settings.Theme)
	assert.True(t, settings.Notifications)
}

func TestUpdateSettingPersistsAndLogs(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	require.NoError(t, s.UpdateSetting(ctx, SettingTheme, "dark"))
	assert.Equal(t, "dark", s.Settings().Theme)

	require.NoError(t, s.LoadSettings(ctx))
	assert.Equal(t, "dark", s.Settings().Theme)

	activities, err := s.LoadActivities(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	latest := activities[0]
	assert.Equal(t, `Theme changed from "light" to "dark"`, latest.Description)
	assert.Equal(t, "update", latest.Action)
	assert.Equal(t, "settings", latest.Page)
	assert.Equal(t, "theme", latest.Metadata["setting"])
	assert.Equal(t, "light", latest.Metadata["old_value"])
	assert.Equal(t, "dark", latest.Metadata["new_value"])
}

func TestUpdateSettingRevertsOnFailure(t *testing.T) {
	ctx := context.Background()
	s, backend := newSession(t)
	backend.setFail("UpsertSettings", true)

	err := s.UpdateSetting(ctx, SettingNotifications, "false")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBackend))
	assert.True(t, s.Settings().Notifications)
	assert.Equal(t, 1, backend.count("InsertActivity"), "only the sign-in entry")
}

func TestUpdateSettingValidation(t *testing.T) {
	ctx := context.Background()
	s, backend := newSession(t)

	assert.True(t, errors.Is(s.UpdateSetting(ctx, SettingTimezone, "Mars/Olympus"), models.ErrInvalidInput))
	assert.True(t, errors.Is(s.UpdateSetting(ctx, SettingTheme, "neon"), models.ErrInvalidInput))
	assert.True(t, errors.Is(s.UpdateSetting(ctx, "volume", "11"), models.ErrInvalidInput))
	assert.Equal(t, 0, backend.count("UpsertSettings"))
}

func TestUpdateTimezoneMirrorsToSink(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	backend := newFlaky(newRepo(t))
	s := NewSession(backend, logging.Discard(), WithDefaultTimezone("UTC"), WithTimezoneSink(sink))
	require.NoError(t, s.SignIn(ctx, models.User{ID: "u1"}))

	require.NoError(t, s.UpdateTimezone(ctx, "Asia/Tokyo"))
	assert.Equal(t, "Asia/Tokyo", s.Timezone())
	assert.Equal(t, []string{"Asia/Tokyo"}, sink.values)

	backend.setFail("UpsertSettings", true)
	require.Error(t, s.UpdateTimezone(ctx, "Europe/Paris"))
	assert.Equal(t, "Asia/Tokyo", s.Timezone())
	assert.Equal(t, []string{"Asia/Tokyo"}, sink.values)
}

func TestSettingsResetOnSignOut(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)
	require.NoError(t, s.UpdateSetting(ctx, SettingTheme, "dark"))

	s.SignOut()
	assert.Equal(t, models.ThemeLight, s.Settings().Theme)
}

func TestActivityLogClear(t *testing.T) {
	ctx := context.Background()
	s, backend := newSession(t)
	s.LogActivity(ctx, "create", "contacts", "Added contact", map[string]any{"id": "c1"})

	activities, err := s.LoadActivities(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, activities, 2)

	require.NoError(t, s.ClearActivities(ctx))
	activities, err = s.LoadActivities(ctx, 50)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Activity log cleared", activities[0].Description)

	backend.setFail("InsertActivity", true)
	s.LogActivity(ctx, "create", "contacts", "dropped", nil)
	activities, err = s.LoadActivities(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}

func TestActivityRequiresUser(t *testing.T) {
	s := NewSession(newRepo(t), logging.Discard())
	_, err := s.LoadActivities(context.Background(), 10)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
	assert.True(t, errors.Is(s.ClearActivities(context.Background()), models.ErrUnauthorized))
}
