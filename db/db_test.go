package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	db, err := OpenDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count))
	assert.Equal(t, 4, count)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenDatabaseTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// CREATE TABLE IF NOT EXISTS must tolerate an existing schema
	db, err = OpenDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := OpenDatabase(filepath.Join(blocker, "sub", "test.db"))
	assert.Error(t, err)
}
