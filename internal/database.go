package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `CREATE TABLE IF NOT EXISTS chatbotKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// SQLiteStore is a KeyValueStore backed by a single SQLite table
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens (creating if needed) the database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
	}

	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return NewSQLiteStore(db, path)
}

// NewSQLiteStore wraps an existing connection and ensures the schema exists
func NewSQLiteStore(db *sql.DB, path string) (*SQLiteStore, error) {
	if _, err := db.Exec(createKVTableSQL); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to create table: %w", err)}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// OpenDatabase opens a SQLite database for read/write access
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
	if path != ":memory:" {
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	}

	return db, nil
}

// Get reads a single key
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM chatbotKV WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// WriteBatch applies puts and deletes in one transaction
func (s *SQLiteStore) WriteBatch(puts []KeyValuePair, deletes []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}

	for _, pair := range puts {
		if _, err := tx.Exec(
			"INSERT INTO chatbotKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			pair.Key, pair.Value,
		); err != nil {
			_ = tx.Rollback()
			return &StorageError{Path: s.path, Op: "write", Err: fmt.Errorf("put %s: %w", pair.Key, err)}
		}
	}
	for _, key := range deletes {
		if _, err := tx.Exec("DELETE FROM chatbotKV WHERE key = ?", key); err != nil {
			_ = tx.Rollback()
			return &StorageError{Path: s.path, Op: "write", Err: fmt.Errorf("delete %s: %w", key, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// QueryKV returns every pair whose key matches a LIKE pattern
func (s *SQLiteStore) QueryKV(pattern string) ([]KeyValuePair, error) {
	rows, err := s.db.Query("SELECT key, value FROM chatbotKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		if err := rows.Scan(&pair.Key, &pair.Value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// Path returns the database location
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
