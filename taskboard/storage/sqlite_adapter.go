package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const kvTable = "kv"

// SQLiteAdapter stores keys as rows of a single table
type SQLiteAdapter struct {
	db *sql.DB
}

// NewSQLiteAdapter opens (or creates) the database at dbPath.
// Use ":memory:" for a throwaway database.
func NewSQLiteAdapter(dbPath string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set busy timeout first to help with concurrent access during initialization
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			// The first connection will already have set WAL
			if strings.Contains(pragma, "journal_mode") && strings.Contains(err.Error(), "database is locked") {
				continue
			}
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	// Single writer connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	schema := "CREATE TABLE IF NOT EXISTS " + kvTable + " (key TEXT PRIMARY KEY, value BLOB NOT NULL)"
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

// Get implements Adapter.Get
func (s *SQLiteAdapter) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := sq.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		QueryRow().
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Adapter.Set
func (s *SQLiteAdapter) Set(key string, value []byte) error {
	_, err := sq.Insert(kvTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove implements Adapter.Remove
func (s *SQLiteAdapter) Remove(key string) error {
	_, err := sq.Delete(kvTable).
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Close implements Adapter.Close
func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
