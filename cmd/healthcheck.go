package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// errHealthcheckFailed is returned after the failure has been reported
var errHealthcheckFailed = errors.New("health check failed")

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that saved chats can be read",
	Long: `Check the health of chat storage by verifying:
  • Configuration
  • Storage availability
  • Saved chats can be decoded
  • Chat and message counts

Run with --verbose to see paths and per-chat details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Chat Storage Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend: %s", cfg.Storage.Backend)))
		if verbose {
			if cfg.Storage.Path != "" {
				fmt.Fprintf(out, "   Path: %s\n", cfg.Storage.Path)
			}
			if used := v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "   Config file: %s\n", used)
			}
			fmt.Fprintf(out, "   Log level: %s\n", cfg.Log.Level)
		}
		if cfg.Storage.Backend == internal.BackendMemory {
			fmt.Fprintln(out, warningStyle.Render("⚠️  In-memory storage: chats are lost on exit"))
		} else if _, err := os.Stat(cfg.Storage.Path); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage file does not exist yet; it is created on first save"))
		}
		fmt.Fprintln(out)

		// Step 2: Open storage
		fmt.Fprintln(out, infoStyle.Render("Step 2: Opening storage..."))
		kv, err := internal.OpenKeyValueStore(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open storage:"), err)
			return errHealthcheckFailed
		}
		defer func() { _ = kv.Close() }()
		fmt.Fprintln(out, successStyle.Render("✅ Storage opened"))
		if located, ok := kv.(interface{ Path() string }); ok && verbose {
			fmt.Fprintf(out, "   Location: %s\n", located.Path())
		}
		fmt.Fprintln(out)

		// Step 3: Load chats
		fmt.Fprintln(out, infoStyle.Render("Step 3: Loading saved chats..."))
		snapshot, err := internal.NewSnapshotStore(kv).Load()
		if err != nil {
			var parseErr *internal.ParseError
			if errors.As(err, &parseErr) {
				fmt.Fprintln(out, errorStyle.Render("❌ Saved chats are corrupt:"), err)
				fmt.Fprintln(out, "   Run 'chat-bot repair --reset' to start over")
			} else {
				fmt.Fprintln(out, errorStyle.Render("❌ Failed to read saved chats:"), err)
			}
			return errHealthcheckFailed
		}

		messageCount := 0
		for _, chat := range snapshot.Chats {
			messageCount += len(chat.Messages)
		}
		if snapshot.IsEmpty() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No chats found"))
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d chat(s) with %d message(s)", len(snapshot.Chats), messageCount)))
			if i := snapshot.FindChat(snapshot.ActiveID); i >= 0 {
				active := snapshot.Chats[i]
				fmt.Fprintf(out, "   Active: %s (%s)\n", active.Title, internal.ShortID(active.ID))
			}
			if verbose {
				maxShow := 5
				if len(snapshot.Chats) < maxShow {
					maxShow = len(snapshot.Chats)
				}
				fmt.Fprintln(out, "   Most recent chats:")
				for i := 0; i < maxShow; i++ {
					chat := snapshot.Chats[i]
					last := "never used"
					if msg, ok := chat.LastMessage(); ok && !msg.Timestamp.IsZero() {
						last = "last message " + msg.Timestamp.Local().Format(time.RFC3339)
					}
					fmt.Fprintf(out, "     %d. %s (%d messages, %s)\n", i+1, chat.Title, len(chat.Messages), last)
				}
			}
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		if !snapshot.IsEmpty() {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Storage: %s", cfg.Storage.Backend)))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Chats: %d found", len(snapshot.Chats))))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage available but no chats saved yet"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
