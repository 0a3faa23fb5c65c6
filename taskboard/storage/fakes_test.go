package storage

import (
	"context"
	"io/fs"
	"sync"
	"time"
)

// memFS keeps files in a map. writeErr and renameErr simulate disk faults.
type memFS struct {
	mu        sync.Mutex
	files     map[string][]byte
	writeErr  error
	renameErr error
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renameErr != nil {
		return m.renameErr
	}
	data, ok := m.files[oldpath]
	if !ok {
		return fs.ErrNotExist
	}
	m.files[newpath] = data
	delete(m.files, oldpath)
	return nil
}

func (m *memFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

func (m *memFS) MkdirAll(string, fs.FileMode) error { return nil }

func (m *memFS) content(name string) ([]byte, bool) {
	data, err := m.ReadFile(name)
	return data, err == nil
}

func (m *memFS) exists(name string) bool {
	_, ok := m.content(name)
	return ok
}

func (m *memFS) seed(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
}

// fakeLock counts acquisitions and releases. heldElsewhere makes every
// attempt fail the way a lock owned by another process does.
type fakeLock struct {
	mu            sync.Mutex
	path          string
	held          bool
	heldElsewhere bool
	acquired      int
	released      int
}

func (l *fakeLock) TryLockContext(context.Context, time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held || l.heldElsewhere {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		l.held = false
		l.released++
	}
	return nil
}

func (l *fakeLock) setHeldElsewhere(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heldElsewhere = v
}
