// ABOUTME: Charm connection settings resolved from application config
// ABOUTME: Persists only the auto-sync toggle flipped by the sync auto command
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harperreed/solocrm/config"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the charm KV database.
	AppName = config.AppName
)

// Config holds charm connection settings.
type Config struct {
	Host     string
	AutoSync bool

	// StaleThreshold is how old local data may get before a read triggers a sync
	StaleThreshold time.Duration

	statePath string
}

// syncState is the on-disk override written by SetAutoSync.
type syncState struct {
	AutoSync *bool `json:"auto_sync,omitempty"`
}

// ConfigFrom builds charm settings from the application config. A toggle
// saved by SetAutoSync wins over the configured auto-sync default.
func ConfigFrom(app *config.Config) (*Config, error) {
	cfg := &Config{
		Host:           app.CharmHost,
		AutoSync:       app.CharmAutoSync,
		StaleThreshold: app.CharmStaleThreshold,
		statePath:      app.CharmStatePath,
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.statePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(cfg.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read charm sync state: %w", err)
	}
	var st syncState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("corrupt charm sync state %s: %w", cfg.statePath, err)
	}
	if st.AutoSync != nil {
		cfg.AutoSync = *st.AutoSync
	}
	return cfg, nil
}

// SetAutoSync enables or disables auto-sync and remembers the choice.
func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	if c.statePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.statePath), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(syncState{AutoSync: &enabled}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.statePath, data, 0600)
}
