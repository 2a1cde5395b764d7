package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_WorldsOnlyToCurrentSchema simulates upgrading a
// database created by an older build that had the worlds table but no
// settings table. Verifies that existing rows survive and the new table
// appears with its constraints.
func TestMigrate_UpgradePath_WorldsOnlyToCurrentSchema(t *testing.T) {
	// Create a raw DB without using OpenDB (to manually control schema).
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS worlds (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		catalog_version TEXT NOT NULL DEFAULT '',
		doc             TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`)
	require.NoError(t, err)

	// Insert legacy data BEFORE running migrations.
	_, err = db.Exec(`INSERT INTO worlds (id, name, catalog_version, doc, created_at, updated_at)
		VALUES ('w1', 'Old Base', '1.0', '{"format_version":2}', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err, "migration on legacy schema should succeed")

	// Data should survive.
	var name, doc string
	err = db.QueryRow(`SELECT name, doc FROM worlds WHERE id = 'w1'`).Scan(&name, &doc)
	require.NoError(t, err)
	assert.Equal(t, "Old Base", name)
	assert.Equal(t, `{"format_version":2}`, doc)

	// The settings table should now exist, seeded with its single row.
	var sortMode string
	err = db.QueryRow(`SELECT sort_mode FROM settings WHERE id = 1`).Scan(&sortMode)
	require.NoError(t, err)
	assert.Equal(t, "io", sortMode)

	_, err = db.Exec(`INSERT INTO settings (id, hide_neutral, sort_mode, last_world_id)
		VALUES (2, 0, 'io', '')`)
	assert.Error(t, err, "settings id other than 1 should be rejected")

	// Re-running Migrate should not break anything.
	err = Migrate(db)
	require.NoError(t, err)

	var nameAfter string
	err = db.QueryRow(`SELECT name FROM worlds WHERE id = 'w1'`).Scan(&nameAfter)
	require.NoError(t, err)
	assert.Equal(t, "Old Base", nameAfter)
}
