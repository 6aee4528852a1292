// Package store persists named records in a key-value document.
package store

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when the backing document or the requested key
// is absent. Callers that treat absence as an empty value check for it
// with errors.Is.
var ErrNotFound = errors.New("document or key not found")

// Store loads and saves named records from a persisted key-value document.
// Absence of the backing medium is equivalent to all keys being absent.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(key string) (json.RawMessage, error)
	// Set replaces the value under key, rewriting the whole document.
	Set(key string, value any) error
	// Document returns the entire raw document, or ErrNotFound when the
	// backing medium is absent.
	Document() (json.RawMessage, error)
	// Backup writes a copy of the document to destination (a default
	// timestamped path when empty) and returns the path written. The
	// source is never mutated.
	Backup(destination string) (string, error)
}
