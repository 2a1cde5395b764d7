package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent, so the
// full list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS worlds (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		catalog_version TEXT NOT NULL DEFAULT '',
		doc             TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_worlds_name ON worlds(name)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id            INTEGER PRIMARY KEY CHECK(id = 1),
		hide_neutral  INTEGER NOT NULL DEFAULT 0,
		sort_mode     TEXT NOT NULL DEFAULT 'io'
		              CHECK(sort_mode IN ('io','item')),
		last_world_id TEXT NOT NULL DEFAULT ''
	)`,

	`INSERT OR IGNORE INTO settings (id) VALUES (1)`,
}
