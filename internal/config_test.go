package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hope-pey/chat-bot/testutil"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := NewViper()
	v.AddConfigPath(testutil.CreateTempDir(t))

	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(DefaultDataDir(), "chats.db"), cfg.Storage.Path)
	assert.Equal(t, time.Second, cfg.Responder.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.Responder.MaxDelay)
	assert.True(t, cfg.Markdown)
}

func TestLoadConfigFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", []byte(`
storage:
  backend: file
  path: `+filepath.Join(dir, "chats.json")+`
log:
  level: debug
responder:
  min_delay: 10ms
  max_delay: 5ms
markdown: false
`))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "chats.json"), cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Millisecond, cfg.Responder.MinDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.Responder.MaxDelay, "max delay is raised to min delay")
	assert.False(t, cfg.Markdown)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CHATBOT_STORAGE_BACKEND", "memory")
	t.Setenv("CHATBOT_LOG_LEVEL", "error")

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "", cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(NewViper(), filepath.Join(testutil.CreateTempDir(t), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("CHATBOT_STORAGE_BACKEND", "redis")
		_, err := LoadConfig(NewViper(), "")
		assert.Error(t, err)
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("CHATBOT_LOG_LEVEL", "loud")
		_, err := LoadConfig(NewViper(), "")
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := testutil.WriteFile(t, dir, ".env", []byte("CHATBOT_TEST_DOTENV=loaded\n"))
	t.Setenv("CHATBOT_TEST_DOTENV", "")
	os.Unsetenv("CHATBOT_TEST_DOTENV")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CHATBOT_TEST_DOTENV"))
}
