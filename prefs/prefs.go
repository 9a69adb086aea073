// ABOUTME: Durable client-local preferences stored as small files with diskv
// ABOUTME: Holds the sidebar flag and the viewer timezone between runs
package prefs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/harperreed/solocrm/dates"
	"github.com/peterbourgon/diskv/v3"
)

// Preference keys.
const (
	SidebarKey  = "solo-crm-sidebar-open"
	TimezoneKey = "user-timezone"
)

// Store reads and writes local preferences.
type Store struct {
	d *diskv.Diskv
}

// Open returns a preference store rooted at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create prefs directory: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0600,
		PathPerm:     0700,
	})}, nil
}

func (s *Store) read(key string) (string, bool, error) {
	data, err := s.d.Read(key)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

func (s *Store) write(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// SidebarOpen returns the stored flag, or def when none is stored or it is unreadable.
func (s *Store) SidebarOpen(def bool) bool {
	raw, ok, err := s.read(SidebarKey)
	if err != nil || !ok {
		return def
	}
	open, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return open
}

// SetSidebarOpen stores the flag.
func (s *Store) SetSidebarOpen(open bool) error {
	return s.write(SidebarKey, strconv.FormatBool(open))
}

// ToggleSidebar flips the flag and returns the new value.
func (s *Store) ToggleSidebar(def bool) (bool, error) {
	next := !s.SidebarOpen(def)
	return next, s.SetSidebarOpen(next)
}

// Timezone returns the stored timezone, or def when none valid is stored.
func (s *Store) Timezone(def string) string {
	raw, ok, err := s.read(TimezoneKey)
	if err != nil || !ok || !dates.ValidTimezone(raw) {
		return def
	}
	return raw
}

// SetTimezone stores the timezone.
func (s *Store) SetTimezone(tz string) error {
	if !dates.ValidTimezone(tz) {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	return s.write(TimezoneKey, tz)
}
