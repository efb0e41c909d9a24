package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/hope-pey/chat-bot/testutil"
	"github.com/spf13/pflag"
)

// resetConfig clears state a previous command run left in package vars
func resetConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", testutil.CreateTempDir(t))

	v = internal.NewViper()
	cfg = nil

	// Flag values and their Changed state outlive a single Execute.
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	bindFlags()
}

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetConfig(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// sampleStore writes the sample chats to a JSON file store and returns the
// flags that select it
func sampleStore(t *testing.T) (string, []string) {
	t.Helper()
	path := filepath.Join(testutil.CreateTempDir(t), "chats.json")
	testutil.CreateFileFixture(t, path)
	return path, []string{"--backend", "file", "--storage", path}
}

func withStore(storeArgs []string, args ...string) []string {
	return append(append([]string{}, args...), storeArgs...)
}

// loadFileSnapshot reads back what the commands saved
func loadFileSnapshot(t *testing.T, path string) internal.Snapshot {
	t.Helper()
	kv, err := internal.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	snapshot, err := internal.NewSnapshotStore(kv).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return snapshot
}
