package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configFile  string
	backendName string
	storagePath string
	logLevel    string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"

	v   = internal.NewViper()
	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-bot",
	Short: "Chat with an assistant from the terminal",
	Long: `A terminal chat client that keeps every conversation on disk.

Chats are saved after every change and restored on the next start, so you can
pick up any conversation where you left it.

Features:
  • Interactive chat with a composing indicator
  • Chat titles derived from your first message
  • Search, rename, select and delete chats
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)
  • SQLite, JSON file or in-memory storage

Quick Start:
  chat-bot                         # Start chatting
  chat-bot list                    # List all chats
  chat-bot show <chat-id>          # View a conversation
  chat-bot export --format md      # Export as Markdown`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := internal.LoadDotEnv(""); err != nil {
		internal.LogWarn("Ignoring .env: %v", err)
	}

	loaded, err := internal.LoadConfig(v, configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if verbose {
		internal.SetVerbose(true)
	} else {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.Log.Level))
	}
	internal.LogDebug("Storage: %s at %q", cfg.Storage.Backend, cfg.Storage.Path)
	return nil
}

// openStore opens the configured backend and restores the saved chats. Every
// change is saved as it happens; the returned function releases the backend.
func openStore(gateway internal.RenderGateway) (*internal.Store, func(), error) {
	kv, err := internal.OpenKeyValueStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := internal.NewStore(internal.NewSnapshotStore(kv), gateway)
	store.Open()

	closeFn := func() {
		if err := kv.Close(); err != nil {
			internal.LogWarn("Failed to close storage: %v", err)
		}
	}
	return store, closeFn, nil
}

// openStoreForUpdate is openStore for commands that change chats. It refuses
// to start from unreadable saved data, which the first save would replace.
func openStoreForUpdate() (*internal.Store, func(), error) {
	store, closeFn, err := openStore(nil)
	if err != nil {
		return nil, nil, err
	}
	var parseErr *internal.ParseError
	if err := store.LastPersistError(); errors.As(err, &parseErr) {
		closeFn()
		return nil, nil, fmt.Errorf("%w (run 'chat-bot repair' first)", err)
	}
	return store, closeFn, nil
}

// checkSaved reports a failed save after a change
func checkSaved(store *internal.Store) error {
	if err := store.LastPersistError(); err != nil {
		return fmt.Errorf("change was not saved: %w", err)
	}
	return nil
}

// flagBindings maps config keys to the persistent flags that override them
var flagBindings = [][2]string{
	{"storage.backend", "backend"},
	{"storage.path", "storage"},
	{"log.level", "log-level"},
}

func bindFlags() {
	for _, b := range flagBindings {
		if err := v.BindPFlag(b[0], rootCmd.PersistentFlags().Lookup(b[1])); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", b[1], err)
			os.Exit(1)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.chat-bot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend (sqlite, file, memory)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (database or JSON file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (error, warn, info, debug)")

	bindFlags()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
