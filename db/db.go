// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite in WAL mode with a busy timeout and applies the CRM schema
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// dsnOptions are appended to every database path.
const dsnOptions = "?_journal_mode=WAL&_busy_timeout=5000"

// OpenDatabase opens (creating if needed) the SQLite file at path.
// Use ":memory:" for a throwaway database.
func OpenDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn += dsnOptions
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time avoids "database is locked" under the web server.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
