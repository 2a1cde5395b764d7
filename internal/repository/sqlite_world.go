package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"factorybook/internal/db"
)

// SQLiteWorldRepo implements WorldRepo using a SQLite database.
type SQLiteWorldRepo struct {
	db db.DBTX
}

// NewSQLiteWorldRepo creates a new SQLiteWorldRepo.
func NewSQLiteWorldRepo(conn db.DBTX) *SQLiteWorldRepo {
	return &SQLiteWorldRepo{db: conn}
}

func (r *SQLiteWorldRepo) Create(ctx context.Context, w *StoredWorld) error {
	query := `INSERT INTO worlds (id, name, catalog_version, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Name,
		w.CatalogVersion,
		string(w.Doc),
		w.CreatedAt.UTC().Format(time.RFC3339),
		w.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting world: %w", err)
	}
	return nil
}

func (r *SQLiteWorldRepo) GetByID(ctx context.Context, id string) (*StoredWorld, error) {
	query := `SELECT id, name, catalog_version, doc, created_at, updated_at
		FROM worlds WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorld(row)
}

func (r *SQLiteWorldRepo) GetByName(ctx context.Context, name string) (*StoredWorld, error) {
	query := `SELECT id, name, catalog_version, doc, created_at, updated_at
		FROM worlds WHERE name = ?`
	row := r.db.QueryRowContext(ctx, query, name)
	return r.scanWorld(row)
}

func (r *SQLiteWorldRepo) List(ctx context.Context) ([]*StoredWorld, error) {
	query := `SELECT id, name, catalog_version, doc, created_at, updated_at
		FROM worlds ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing worlds: %w", err)
	}
	defer rows.Close()
	return r.scanWorlds(rows)
}

func (r *SQLiteWorldRepo) Update(ctx context.Context, w *StoredWorld) error {
	query := `UPDATE worlds SET name = ?, catalog_version = ?, doc = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		w.Name,
		w.CatalogVersion,
		string(w.Doc),
		w.UpdatedAt.UTC().Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating world: %w", err)
	}
	return nil
}

func (r *SQLiteWorldRepo) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE worlds SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, name, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("renaming world: %w", err)
	}
	return nil
}

func (r *SQLiteWorldRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM worlds WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting world: %w", err)
	}
	return nil
}

// scanWorld scans a single world row from a *sql.Row.
func (r *SQLiteWorldRepo) scanWorld(row *sql.Row) (*StoredWorld, error) {
	var w StoredWorld
	var doc, createdAtStr, updatedAtStr string

	err := row.Scan(&w.ID, &w.Name, &w.CatalogVersion, &doc, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("world: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning world: %w", err)
	}
	return r.populateWorld(&w, doc, createdAtStr, updatedAtStr)
}

// scanWorlds scans multiple world rows from *sql.Rows.
func (r *SQLiteWorldRepo) scanWorlds(rows *sql.Rows) ([]*StoredWorld, error) {
	var worlds []*StoredWorld
	for rows.Next() {
		var w StoredWorld
		var doc, createdAtStr, updatedAtStr string
		if err := rows.Scan(&w.ID, &w.Name, &w.CatalogVersion, &doc, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning world row: %w", err)
		}
		world, err := r.populateWorld(&w, doc, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, world)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating worlds: %w", err)
	}
	return worlds, nil
}

// populateWorld fills in parsed fields after scanning raw strings.
func (r *SQLiteWorldRepo) populateWorld(w *StoredWorld, doc, createdAtStr, updatedAtStr string) (*StoredWorld, error) {
	w.Doc = []byte(doc)

	var parseErr error
	w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return w, nil
}
