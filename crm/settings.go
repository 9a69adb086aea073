// ABOUTME: Per-user settings with optimistic updates
// ABOUTME: A failed save restores the snapshot taken before the change
package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
)

// Setting keys accepted by UpdateSetting.
const (
	SettingTimezone      = "timezone"
	SettingTheme         = "theme"
	SettingNotifications = "notifications"
)

// TimezoneSink receives the timezone whenever it changes.
type TimezoneSink interface {
	SetTimezone(tz string) error
}

// Settings returns the current settings.
func (s *Session) Settings() models.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Timezone is the viewer's timezone from settings.
func (s *Session) Timezone() string {
	return s.Settings().Timezone
}

// LoadSettings reads the user's settings, falling back to defaults when none are stored.
func (s *Session) LoadSettings(ctx context.Context) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	rec, err := s.backend.GetSettings(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load settings", "err", err)
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := models.DefaultSettings(s.defTZ)
	if rec != nil {
		loaded = settingsFromRecord(*rec)
		if !dates.ValidTimezone(loaded.Timezone) {
			loaded.Timezone = s.defTZ
		}
	}
	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return nil
}

// applySetting returns settings with key set to value, and the old and new values as text.
func applySetting(current models.UserSettings, key, value string) (models.UserSettings, string, string, error) {
	next := current
	switch key {
	case SettingTimezone:
		if !dates.ValidTimezone(value) {
			return current, "", "", &models.ValidationError{Field: key, Message: "Unknown timezone: " + value}
		}
		next.Timezone = value
		return next, current.Timezone, value, nil
	case SettingTheme:
		switch value {
		case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
		default:
			return current, "", "", &models.ValidationError{Field: key, Message: "Unknown theme: " + value}
		}
		next.Theme = value
		return next, current.Theme, value, nil
	case SettingNotifications:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return current, "", "", &models.ValidationError{Field: key, Message: "Notifications must be true or false"}
		}
		next.Notifications = on
		return next, strconv.FormatBool(current.Notifications), strconv.FormatBool(on), nil
	default:
		return current, "", "", &models.ValidationError{Field: key, Message: "Unknown setting: " + key}
	}
}

// UpdateSetting changes one setting optimistically. The new value is visible
// immediately; if the backend rejects it the previous settings are restored.
func (s *Session) UpdateSetting(ctx context.Context, key, value string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}

	s.mu.Lock()
	prior := s.settings
	next, oldValue, newValue, err := applySetting(prior, key, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.settings = next
	s.mu.Unlock()

	if err := s.backend.UpsertSettings(ctx, user.ID, settingsToRecord(user.ID, next)); err != nil {
		s.mu.Lock()
		s.settings = prior
		s.mu.Unlock()
		s.logger.Error("failed to save setting, reverted", "setting", key, "err", err)
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	s.LogActivity(ctx, "update", "settings",
		fmt.Sprintf("%s changed from %q to %q", capitalize(key), oldValue, newValue),
		map[string]any{"setting": key, "old_value": oldValue, "new_value": newValue})
	return nil
}

// UpdateTimezone changes the timezone setting and mirrors it into local preferences.
func (s *Session) UpdateTimezone(ctx context.Context, tz string) error {
	if err := s.UpdateSetting(ctx, SettingTimezone, tz); err != nil {
		return err
	}
	if s.tzSink != nil {
		if err := s.tzSink.SetTimezone(tz); err != nil {
			s.logger.Warn("failed to persist local timezone", "err", err)
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
