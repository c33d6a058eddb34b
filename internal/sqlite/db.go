package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema directly (for testing)
// In production, migrations are applied from the embed package at startup
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS query_history (
    id TEXT PRIMARY KEY,
    org_username TEXT NOT NULL,
    query_mode TEXT NOT NULL,
    metadata_type TEXT NOT NULL DEFAULT '',
    package_filter TEXT NOT NULL DEFAULT '',
    result_count INTEGER NOT NULL DEFAULT 0,
    ran_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_org ON query_history(org_username, ran_at DESC);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
