// ABOUTME: Tests for charm settings resolved from application config
// ABOUTME: Covers host defaults and the persisted auto-sync toggle
package charm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/solocrm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromAppConfig(t *testing.T) {
	app := &config.Config{
		CharmAutoSync:       true,
		CharmStaleThreshold: 30 * time.Minute,
		CharmStatePath:      filepath.Join(t.TempDir(), "charm-sync.json"),
	}

	cfg, err := ConfigFrom(app)
	require.NoError(t, err)
	assert.Equal(t, DefaultCharmHost, cfg.Host)
	assert.True(t, cfg.AutoSync)
	assert.Equal(t, 30*time.Minute, cfg.StaleThreshold)

	app.CharmHost = "charm.example.com"
	cfg, err = ConfigFrom(app)
	require.NoError(t, err)
	assert.Equal(t, "charm.example.com", cfg.Host)
}

func TestSetAutoSyncOverridesConfiguredDefault(t *testing.T) {
	app := &config.Config{CharmAutoSync: true, CharmStatePath: filepath.Join(t.TempDir(), "state", "charm-sync.json")}

	cfg, err := ConfigFrom(app)
	require.NoError(t, err)
	require.NoError(t, cfg.SetAutoSync(false))

	reloaded, err := ConfigFrom(app)
	require.NoError(t, err)
	assert.False(t, reloaded.AutoSync)

	require.NoError(t, reloaded.SetAutoSync(true))
	reloaded, err = ConfigFrom(app)
	require.NoError(t, err)
	assert.True(t, reloaded.AutoSync)
}

func TestConfigFromCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charm-sync.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := ConfigFrom(&config.Config{CharmStatePath: path})
	assert.Error(t, err)
}

func TestSetAutoSyncWithoutStatePath(t *testing.T) {
	cfg, err := ConfigFrom(&config.Config{})
	require.NoError(t, err)
	require.NoError(t, cfg.SetAutoSync(true))
	assert.True(t, cfg.AutoSync)
}
