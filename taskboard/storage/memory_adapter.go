package storage

import "sync"

// MemoryAdapter keeps values in a map. Nothing survives the process.
type MemoryAdapter struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool

	// Injected failures for tests
	GetError error
	SetError error

	// Writes counts successful Set and Remove calls
	Writes int
}

// NewMemoryAdapter creates an empty in-memory adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{values: make(map[string][]byte)}
}

// Get implements Adapter.Get
func (m *MemoryAdapter) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set implements Adapter.Set
func (m *MemoryAdapter) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.SetError != nil {
		return m.SetError
	}
	m.values[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

// Remove implements Adapter.Remove
func (m *MemoryAdapter) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.SetError != nil {
		return m.SetError
	}
	delete(m.values, key)
	m.Writes++
	return nil
}

// Close implements Adapter.Close
func (m *MemoryAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
