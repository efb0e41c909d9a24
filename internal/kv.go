package internal

import (
	"fmt"
	"strings"
)

// KeyValuePair represents a single key/value entry in a backend
type KeyValuePair struct {
	Key   string
	Value string
}

// KeyValueStore is a durable string key/value backend. WriteBatch must apply
// all puts and deletes together or not at all.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	WriteBatch(puts []KeyValuePair, deletes []string) error
	Close() error
}

// Backend names accepted by OpenKeyValueStore
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// OpenKeyValueStore opens the named backend at path
func OpenKeyValueStore(backend, path string) (KeyValueStore, error) {
	switch strings.ToLower(backend) {
	case "", BackendSQLite:
		return OpenSQLiteStore(path)
	case BackendFile, "json":
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: sqlite, file, memory)", backend)
	}
}
