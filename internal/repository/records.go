package repository

import (
	"encoding/json"
	"time"
)

// StoredWorld is one persisted world. Doc carries the serialized tree
// document verbatim; the repository never looks inside it.
type StoredWorld struct {
	ID             string
	Name           string
	CatalogVersion string
	Doc            json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SortMode selects how balance rows are ordered in views.
type SortMode string

const (
	// SortIO groups rows by sign: produced first, then neutral, then consumed.
	SortIO SortMode = "io"
	// SortItem follows the catalog's display order regardless of sign.
	SortItem SortMode = "item"
)

// Settings is the single row of user preferences.
type Settings struct {
	HideNeutral bool
	SortMode    SortMode
	LastWorldID string
}

// DefaultSettings mirrors the column defaults in the settings table.
func DefaultSettings() Settings {
	return Settings{SortMode: SortIO}
}
