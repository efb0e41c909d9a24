package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a KeyValueStore kept as one JSON document on disk. Every
// batch rewrites the whole document through a temp file and a rename, so a
// failed write leaves the previous document intact.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file store at path; the file is created on first write
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, &StorageError{Path: path, Op: "open", Err: errors.New("empty path")}
	}
	return &FileStore{path: path}, nil
}

// EnsureDir ensures the parent directory exists
func (fs *FileStore) EnsureDir() error {
	return os.MkdirAll(filepath.Dir(fs.path), 0755)
}

// Path returns the document location
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) readDocument() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &StorageError{Path: fs.path, Op: "read", Err: err}
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: BackendFile, Key: fs.path, Err: err}
	}
	return doc, nil
}

// Get reads a single key
func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.readDocument()
	if err != nil {
		return "", false, err
	}
	value, ok := doc[key]
	return value, ok, nil
}

// WriteBatch applies puts and deletes and atomically replaces the document
func (fs *FileStore) WriteBatch(puts []KeyValuePair, deletes []string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.readDocument()
	if err != nil {
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			return err
		}
		// A corrupt document is replaced by the new one.
		LogWarn("Replacing unreadable store file %s: %v", fs.path, err)
		doc = map[string]string{}
	}
	for _, pair := range puts {
		doc[pair.Key] = pair.Value
	}
	for _, key := range deletes {
		delete(doc, key)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StorageError{Path: fs.path, Op: "write", Err: fmt.Errorf("failed to marshal document: %w", err)}
	}
	if err := fs.EnsureDir(); err != nil {
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		cleanup()
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	return nil
}

// Close is a no-op; the file is not held open between calls
func (fs *FileStore) Close() error {
	return nil
}
