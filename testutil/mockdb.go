package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `
	CREATE TABLE IF NOT EXISTS chatbotKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`

// CreateInMemoryDB creates an in-memory SQLite database with the chatbotKV
// table. The pool is limited to one connection so every query sees the same
// in-memory database.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createKVTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create chatbotKV table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertKV inserts or replaces a raw key/value row
func InsertKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT OR REPLACE INTO chatbotKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

// ReadKV returns the raw value stored under key
func ReadKV(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var value string
	err := db.QueryRow("SELECT value FROM chatbotKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		t.Fatalf("Failed to read %s: %v", key, err)
	}
	return value, true
}
