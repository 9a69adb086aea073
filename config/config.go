// ABOUTME: Application configuration loaded from .env, environment and config.yaml
// ABOUTME: Defaults point at XDG data and config directories
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppName names the XDG directories and the env prefix.
const AppName = "solocrm"

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config holds resolved settings.
type Config struct {
	DBPath     string
	Backend    string
	UserID     string
	UserEmail  string
	JWTSecret  string
	Port       int
	LogLevel   string
	LogFormat  string
	Locale     string
	Timezone   string
	PrefsDir   string
	ConfigFile string

	CharmHost           string
	CharmAutoSync       bool
	CharmStaleThreshold time.Duration
	CharmStatePath      string
}

// Load reads configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("db_path", filepath.Join(xdg.DataHome, AppName, "crm.db"))
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("user_id", "local")
	v.SetDefault("user_email", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("locale", "en-US")
	v.SetDefault("timezone", "")
	v.SetDefault("prefs_dir", filepath.Join(xdg.ConfigHome, AppName, "prefs"))
	v.SetDefault("charm_host", "charm.2389.dev")
	v.SetDefault("charm_auto_sync", true)
	v.SetDefault("charm_stale_threshold", time.Hour)
	v.SetDefault("charm_state_path", filepath.Join(xdg.DataHome, AppName, "charm-sync.json"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	if override := os.Getenv("SOLOCRM_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DBPath:     v.GetString("db_path"),
		Backend:    strings.ToLower(v.GetString("backend")),
		UserID:     v.GetString("user_id"),
		UserEmail:  v.GetString("user_email"),
		JWTSecret:  v.GetString("jwt_secret"),
		Port:       v.GetInt("port"),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		Locale:     v.GetString("locale"),
		Timezone:   v.GetString("timezone"),
		PrefsDir:   v.GetString("prefs_dir"),
		ConfigFile: v.ConfigFileUsed(),

		CharmHost:           v.GetString("charm_host"),
		CharmAutoSync:       v.GetBool("charm_auto_sync"),
		CharmStaleThreshold: v.GetDuration("charm_stale_threshold"),
		CharmStatePath:      v.GetString("charm_state_path"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendCharm:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSQLite, BackendCharm)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.CharmStaleThreshold < 0 {
		return fmt.Errorf("charm_stale_threshold must not be negative, got %s", c.CharmStaleThreshold)
	}
	return nil
}
