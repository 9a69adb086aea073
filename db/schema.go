// ABOUTME: Database schema definitions
// ABOUTME: Every table carries user_id so queries can be scoped to one account
package db

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT,
	follow_up_date TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON contacts(user_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(user_id, email);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	type TEXT NOT NULL,
	date TEXT NOT NULL,
	notes TEXT NOT NULL,
	follow_up_date TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON interactions(user_id);
CREATE INDEX IF NOT EXISTS idx_interactions_contact_id ON interactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_interactions_date ON interactions(user_id, date DESC);

CREATE TABLE IF NOT EXISTS user_settings (
	user_id TEXT PRIMARY KEY,
	timezone TEXT NOT NULL,
	theme TEXT NOT NULL DEFAULT 'light',
	notifications INTEGER NOT NULL DEFAULT 1,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	user_email TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	page TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	metadata TEXT,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_log_user_ts ON activity_log(user_id, timestamp DESC);
`

func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
