package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown backend",
			args:    []string{"list", "--backend", "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			args:    []string{"list", "--backend", "memory", "--log-level", "loud"},
			wantErr: true,
		},
		{
			name:    "missing config file",
			args:    []string{"list", "--backend", "memory", "--config", "/nonexistent/config.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	path, storeArgs := sampleStore(t)

	if _, err := executeCommand(t, withStore(storeArgs, "list", "--log-level", "debug")...); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Storage.Path, path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log level = %q, want debug", cfg.Log.Level)
	}
}

func TestRootCommand_EnvOverride(t *testing.T) {
	t.Setenv("CHATBOT_MARKDOWN", "false")
	if _, err := executeCommand(t, "list", "--backend", "memory"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if cfg.Markdown {
		t.Error("CHATBOT_MARKDOWN=false should disable markdown")
	}
}

func TestExecute(t *testing.T) {
	_, err := executeCommand(t, "nonexistent-command")
	if err == nil {
		t.Error("Execute() should return error for nonexistent command")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"chat", "list", "show", "new", "select", "rename", "delete", "export", "healthcheck", "inspect", "repair"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered (have %s)", name, strings.Join(keys(registered), ", "))
		}
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
