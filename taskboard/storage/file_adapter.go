package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// FileAdapter stores all keys in a single JSON object file.
// Every operation re-reads the file under a cross-process lock, so two
// sessions on the same file never interleave partial writes.
type FileAdapter struct {
	filePath string
	mu       sync.Mutex
	closed   bool

	fs      FileSystem
	newLock LockFunc
	lock    Locker
	logger  *slog.Logger
}

// FileAdapterOption is a function that modifies FileAdapter configuration
type FileAdapterOption func(*FileAdapter)

// WithFileSystem replaces the os-backed file operations
func WithFileSystem(files FileSystem) FileAdapterOption {
	return func(a *FileAdapter) {
		a.fs = files
	}
}

// WithLocker replaces the flock-based cross-process lock
func WithLocker(newLock LockFunc) FileAdapterOption {
	return func(a *FileAdapter) {
		a.newLock = newLock
	}
}

// WithFileLogger sets the logger used for recoverable problems
func WithFileLogger(logger *slog.Logger) FileAdapterOption {
	return func(a *FileAdapter) {
		a.logger = logger
	}
}

// NewFileAdapter creates an adapter backed by the JSON file at filePath.
// The file and its parent directory are created on first write.
func NewFileAdapter(filePath string, opts ...FileAdapterOption) (*FileAdapter, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	a := &FileAdapter{filePath: filePath}
	for _, opt := range opts {
		opt(a)
	}

	if a.fs == nil {
		a.fs = osFS{}
	}
	if a.newLock == nil {
		a.newLock = flockLocker
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	if err := a.fs.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	a.lock = a.newLock(filePath + ".lock")

	return a, nil
}

// Path returns the backing file path
func (a *FileAdapter) Path() string {
	return a.filePath
}

// Get implements Adapter.Get
func (a *FileAdapter) Get(key string) ([]byte, bool, error) {
	var (
		value  []byte
		exists bool
	)
	err := a.withLock(func() error {
		values, err := a.load()
		if err != nil {
			return err
		}
		raw, ok := values[key]
		if ok {
			value = append([]byte(nil), raw...)
			exists = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, exists, nil
}

// Set implements Adapter.Set. The value must be valid JSON.
func (a *FileAdapter) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	return a.withLock(func() error {
		values, err := a.loadForWrite()
		if err != nil {
			return err
		}
		values[key] = json.RawMessage(append([]byte(nil), value...))
		return a.save(values)
	})
}

// Remove implements Adapter.Remove
func (a *FileAdapter) Remove(key string) error {
	return a.withLock(func() error {
		values, err := a.loadForWrite()
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		delete(values, key)
		return a.save(values)
	})
}

// Close implements Adapter.Close
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// withLock serializes in-process callers and holds the file lock around fn
func (a *FileAdapter) withLock(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := a.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = a.lock.Unlock() }()

	return fn()
}

// acquireLock attempts to acquire an exclusive file lock with retry logic
func (a *FileAdapter) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := a.lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// load reads the JSON object file. Caller must hold the lock.
func (a *FileAdapter) load() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)

	data, err := a.fs.ReadFile(a.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Empty file is OK
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, a.filePath, err)
	}
	return values, nil
}

// loadForWrite is load, except a corrupt file is replaced rather than fatal
func (a *FileAdapter) loadForWrite() (map[string]json.RawMessage, error) {
	values, err := a.load()
	if errors.Is(err, ErrCorrupt) {
		a.logger.Warn("overwriting corrupt store file", "path", a.filePath, "error", err)
		return make(map[string]json.RawMessage), nil
	}
	return values, err
}

// save writes values atomically: temp file, then rename. Caller must hold the lock.
func (a *FileAdapter) save(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := a.filePath + ".tmp"
	if err := a.fs.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := a.fs.Rename(tmpFile, a.filePath); err != nil {
		_ = a.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
