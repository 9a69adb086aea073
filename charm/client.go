// ABOUTME: Charm KV client wrapper with automatic sync support
// ABOUTME: Serializes access to the KV and pushes after writes when auto-sync is on

package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// ErrKeyNotFound is returned by Get for absent keys.
var ErrKeyNotFound = badger.ErrKeyNotFound

// kvStore is the subset of *kv.KV the client uses.
type kvStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client wraps charm KV with config and sync helpers.
type Client struct {
	kv     kvStore
	config *Config
	remote bool
	mu     sync.RWMutex

	lastSync time.Time
}

// NewClient opens the charm KV for this application.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{Host: DefaultCharmHost}
	}

	// charm reads the server from the environment
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{kv: db, config: cfg, remote: true}

	// Pull remote changes on startup
	if cfg.AutoSync && db.Sync() == nil {
		c.lastSync = time.Now()
	}
	return c, nil
}

// Config returns the client's config.
func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if !c.remote {
		return "local-test", nil
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// IsConnected reports whether the charm server knows this device.
func (c *Client) IsConnected() bool {
	_, err := c.ID()
	return err == nil
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Sync(); err != nil {
		return err
	}
	c.lastSync = time.Now()
	return nil
}

// SyncIfStale pulls from the server when the last sync is older than the stale threshold.
// A zero threshold disables it.
func (c *Client) SyncIfStale() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.StaleThreshold <= 0 || time.Since(c.lastSync) < c.config.StaleThreshold {
		return
	}
	if c.kv.Sync() == nil {
		c.lastSync = time.Now()
	}
}

// LastSync returns when the client last synced successfully, or the zero time.
func (c *Client) LastSync() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSync
}

// Get retrieves a value by key. Missing keys return ErrKeyNotFound.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get(key)
}

// Has reports whether key exists.
func (c *Client) Has(key []byte) (bool, error) {
	_, err := c.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	// Sync while still holding the lock so pushes stay ordered
	if c.config.AutoSync && c.kv.Sync() == nil {
		c.lastSync = time.Now()
	}
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}
	if c.config.AutoSync && c.kv.Sync() == nil {
		c.lastSync = time.Now()
	}
	return nil
}

// KeysWithPrefix returns all keys starting with the given prefix.
func (c *Client) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	c.mu.RLock()
	allKeys, err := c.kv.Keys()
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var matched [][]byte
	for _, k := range allKeys {
		if bytes.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// Reset wipes all data from the KV store.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
