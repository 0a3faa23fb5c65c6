package storage

import (
	"fmt"
	"log/slog"
	"strings"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and locates a backend
type Config struct {
	Backend string
	Path    string
	Logger  *slog.Logger
}

// Open creates the adapter described by cfg. An empty backend means file.
func Open(cfg Config) (Adapter, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFileAdapter(cfg.Path, WithFileLogger(cfg.Logger))
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		return NewSQLiteAdapter(cfg.Path)
	case BackendMemory:
		return NewMemoryAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s, %s or %s)",
			cfg.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
}
