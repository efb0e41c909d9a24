package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hope-pey/chat-bot/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	_, storeArgs := sampleStore(t)

	output, err := executeCommand(t, withStore(storeArgs, "healthcheck")...)
	if err != nil {
		t.Fatalf("healthcheck command failed: %v", err)
	}

	for _, want := range []string{"Backend: file", "Found 2 chat(s) with 2 message(s)", "Active: Hello there", "Health check passed"} {
		if !strings.Contains(output, want) {
			t.Errorf("healthcheck output missing %q:\n%s", want, output)
		}
	}
}

func TestHealthcheckCommand_Verbose(t *testing.T) {
	path, storeArgs := sampleStore(t)

	output, err := executeCommand(t, withStore(storeArgs, "healthcheck", "--verbose")...)
	if err != nil {
		t.Fatalf("healthcheck command failed: %v", err)
	}
	if !strings.Contains(output, path) {
		t.Errorf("verbose output should include the storage path %s", path)
	}
	if !strings.Contains(output, "Most recent chats") {
		t.Error("verbose output should list recent chats")
	}
}

func TestHealthcheckCommand_Empty(t *testing.T) {
	output, err := executeCommand(t, "healthcheck", "--backend", "memory")
	if err != nil {
		t.Fatalf("healthcheck command failed: %v", err)
	}
	if !strings.Contains(output, "No chats found") {
		t.Errorf("expected empty storage warning, got:\n%s", output)
	}
}

func TestHealthcheckCommand_Corrupt(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "chats.json", []byte(`{"chatbot_chats": "not json"}`))

	output, err := executeCommand(t, "healthcheck", "--backend", "file", "--storage", path)
	if err == nil {
		t.Fatal("healthcheck should fail on corrupt storage")
	}
	if !strings.Contains(output, "corrupt") {
		t.Errorf("expected corruption report, got:\n%s", output)
	}
}

func TestHealthcheckCommand_MissingFile(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "none.json")

	output, err := executeCommand(t, "healthcheck", "--backend", "file", "--storage", path)
	if err != nil {
		t.Fatalf("healthcheck command failed: %v", err)
	}
	if !strings.Contains(output, "does not exist yet") {
		t.Errorf("expected missing file warning, got:\n%s", output)
	}
}
