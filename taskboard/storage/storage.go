// Package storage provides the persistence layer for taskboard.
// It defines the key-value Adapter a session writes through and provides
// implementations for different backends: a locked JSON file, SQLite and memory.
package storage

import "errors"

// Keys under which a session persists its state
const (
	// TasksKey holds the task collection as a JSON array
	TasksKey = "tasks"

	// ThemeKey holds the dark mode flag as a JSON boolean
	ThemeKey = "darkMode"
)

var (
	// ErrCorrupt is returned by Get when the backend content cannot be decoded.
	// Callers may treat it like a missing value; a subsequent Set starts over.
	ErrCorrupt = errors.New("storage content is corrupt")

	// ErrClosed is returned by any operation on a closed adapter
	ErrClosed = errors.New("storage adapter is closed")
)

// Adapter is a flat key-value store. Each call is all-or-nothing and
// synchronous from the caller's point of view.
type Adapter interface {
	// Get returns the value stored under key and whether it exists
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key string, value []byte) error

	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error

	// Close releases any resources held by the adapter
	Close() error
}
