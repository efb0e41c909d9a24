package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHATBOT_STORAGE_PATH
const EnvPrefix = "CHATBOT"

// Config holds everything the CLI needs to build a session
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Responder ResponderConfig `mapstructure:"responder"`
	Markdown  bool            `mapstructure:"markdown"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// LogConfig sets the log level
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ResponderConfig tunes the canned responder
type ResponderConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DefaultDataDir returns ~/.chat-bot, or ./.chat-bot if there is no home
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".chat-bot"
	}
	return filepath.Join(home, ".chat-bot")
}

// DefaultStoragePath returns the default path for backend
func DefaultStoragePath(backend string) string {
	switch backend {
	case BackendFile, "json":
		return filepath.Join(DefaultDataDir(), "chats.json")
	case BackendMemory:
		return ""
	default:
		return filepath.Join(DefaultDataDir(), "chats.db")
	}
}

// SetConfigDefaults registers default values on v
func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("responder.min_delay", time.Second)
	v.SetDefault("responder.max_delay", 3*time.Second)
	v.SetDefault("responder.timeout", 30*time.Second)
	v.SetDefault("markdown", true)
}

// NewViper returns a viper instance with defaults and CHATBOT_* env binding
func NewViper() *viper.Viper {
	v := viper.New()
	SetConfigDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &ParseError{Source: path, Err: err}
	}
	LogDebug("Loaded environment from %s", path)
	return nil
}

// LoadConfig reads configFile (if non-empty, or config.yaml in the data dir
// if present) into v and decodes the result
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		LogDebug("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes the backend name, fills in the storage path, and
// checks the responder delays
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "", BackendSQLite:
		c.Storage.Backend = BackendSQLite
	case BackendFile, "json":
		c.Storage.Backend = BackendFile
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath(c.Storage.Backend)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "", "error", "warn", "warning", "info", "debug":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.Responder.MinDelay < 0 || c.Responder.MaxDelay < 0 || c.Responder.Timeout < 0 {
		return errors.New("responder durations must not be negative")
	}
	if c.Responder.MaxDelay < c.Responder.MinDelay {
		c.Responder.MaxDelay = c.Responder.MinDelay
	}
	return nil
}
