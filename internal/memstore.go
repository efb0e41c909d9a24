package internal

import "sync"

// MemoryStore is a KeyValueStore that lives only for the process lifetime
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string

	failWrites bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get reads a single key
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// WriteBatch applies puts and deletes under one lock
func (m *MemoryStore) WriteBatch(puts []KeyValuePair, deletes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return &StorageError{Path: "memory", Op: "write", Err: ErrPersistenceUnavailable}
	}
	for _, pair := range puts {
		m.data[pair.Key] = pair.Value
	}
	for _, key := range deletes {
		delete(m.data, key)
	}
	return nil
}

// SetFailWrites makes every later WriteBatch fail without applying anything
func (m *MemoryStore) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Set writes a single raw value, bypassing snapshot encoding
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
