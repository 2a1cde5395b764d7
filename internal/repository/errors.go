package repository

import "errors"

// ErrNotFound is returned by lookups when no row matches. Callers match it
// with errors.Is; repos wrap it with the entity name for context.
var ErrNotFound = errors.New("not found")
