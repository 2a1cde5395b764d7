package repository

import (
	"context"
	"database/sql"
	"fmt"

	"factorybook/internal/db"
)

// SQLiteSettingsRepo implements SettingsRepo using a SQLite database.
// Migrations seed the single row, so Get only misses on a corrupted DB.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (Settings, error) {
	query := `SELECT hide_neutral, sort_mode, last_world_id FROM settings WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	var s Settings
	var hideNeutral int
	var sortMode string
	err := row.Scan(&hideNeutral, &sortMode, &s.LastWorldID)
	if err != nil {
		if err == sql.ErrNoRows {
			return Settings{}, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return Settings{}, fmt.Errorf("scanning settings: %w", err)
	}
	s.HideNeutral = intToBool(hideNeutral)
	s.SortMode = SortMode(sortMode)
	return s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s Settings) error {
	query := `INSERT OR REPLACE INTO settings (id, hide_neutral, sort_mode, last_world_id)
		VALUES (1, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		boolToInt(s.HideNeutral),
		string(s.SortMode),
		s.LastWorldID,
	)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}
