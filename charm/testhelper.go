// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Backs the client with a BadgerDB in a temporary directory

package charm

import (
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// badgerKV implements kvStore directly on BadgerDB so tests need no charm server.
type badgerKV struct {
	db    *badger.DB
	syncs int
}

func (b *badgerKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (b *badgerKV) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *badgerKV) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *badgerKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (b *badgerKV) Sync() error {
	b.syncs++
	return nil
}

func (b *badgerKV) Reset() error { return b.db.DropAll() }

// NewTestClient returns a client on a temporary BadgerDB. It is closed when the test ends.
func NewTestClient(t testing.TB) *Client {
	t.Helper()

	opts := badger.DefaultOptions(filepath.Join(t.TempDir(), AppName)).
		WithLogger(nil) // Suppress badger logs in tests

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	return &Client{
		kv:     &badgerKV{db: db},
		config: &Config{
			Host:      "localhost",
			statePath: filepath.Join(t.TempDir(), "charm-sync.json"),
		},
	}
}
