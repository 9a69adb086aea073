// ABOUTME: SQLite-backed persistence for a user's CRM records
// ABOUTME: Every statement is filtered on user_id
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository stores contacts, interactions, settings and activity in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository wraps an open database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open opens the database at path and wraps it.
func Open(path string) (*Repository, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}

// DB exposes the underlying handle.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func checkAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, errNotFound)
	}
	return nil
}

func marshalJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
