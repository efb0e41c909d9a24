package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Raw values as the chat client persists them
const (
	SampleChatsJSON = `[
  {"id":"chat-b","title":"Second chat","messages":[],"createdAt":"2024-01-02T10:00:00Z"},
  {"id":"chat-a","title":"Hello there","messages":[
    {"id":"m1","role":"user","content":"Hello there","timestamp":"2024-01-01T10:00:00Z"},
    {"id":"m2","role":"assistant","content":"Hello! How can I help you today?","timestamp":"2024-01-01T10:00:02Z"}
  ],"createdAt":"2024-01-01T10:00:00Z"}
]`
	SampleActiveChatID = "chat-a"
)

// CreateSQLiteFixture creates a SQLite database at dbPath holding the sample
// snapshot
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createKVTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	InsertKV(t, db, "chatbot_chats", SampleChatsJSON)
	InsertKV(t, db, "chatbot_current_chat", SampleActiveChatID)
}

// CreateFileFixture writes the sample snapshot as a JSON document at path
func CreateFileFixture(t *testing.T, path string) {
	t.Helper()
	doc := map[string]string{
		"chatbot_chats":        SampleChatsJSON,
		"chatbot_current_chat": SampleActiveChatID,
	}
	WriteFile(t, filepath.Dir(path), filepath.Base(path), JSONMarshal(t, doc))
}
