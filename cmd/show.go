package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	limit   int
	since   string
	rawShow bool
)

var (
	// Styles for show command
	chatHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	chatMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Show messages for a specific chat",
	Long: `Display the conversation of one chat. A unique prefix of the chat ID is
enough; use 'chat-bot list' to see IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(nil)
		if err != nil {
			return err
		}
		defer closeStore()

		id, err := store.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("%w (use 'chat-bot list' to see available chats)", err)
		}
		chat, _ := store.Chat(id)

		var sinceTime time.Time
		if since != "" {
			sinceTime, err = time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
		}

		var renderer *glamour.TermRenderer
		if cfg.Markdown && !rawShow {
			renderer, err = glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			if err != nil {
				internal.LogDebug("Markdown rendering unavailable: %v", err)
				renderer = nil
			}
		}

		out := cmd.OutOrStdout()
		displayChatHeader(out, &chat, chat.ID == store.ActiveID())

		messages := filterSince(chat.Messages, sinceTime)
		total := len(messages)
		if limit > 0 && limit < len(messages) {
			messages = messages[:limit]
		}

		for i, msg := range messages {
			displayMessage(out, renderer, i+1, msg, total)
		}

		if limit > 0 && limit < total {
			fmt.Fprintln(out)
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", total-limit)))
		}

		return nil
	},
}

func filterSince(messages []internal.Message, since time.Time) []internal.Message {
	if since.IsZero() {
		return messages
	}
	filtered := make([]internal.Message, 0, len(messages))
	for _, msg := range messages {
		if !msg.Timestamp.Before(since) {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

func displayChatHeader(out io.Writer, chat *internal.Chat, active bool) {
	title := chat.Title
	if active {
		title += " (active)"
	}
	fmt.Fprintln(out, chatHeaderStyle.Render(fmt.Sprintf("💬 %s", title)))

	metaParts := []string{fmt.Sprintf("ID: %s", chat.ID)}
	if !chat.CreatedAt.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", chat.CreatedAt.Local().Format(time.RFC3339)))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(chat.Messages)))
	fmt.Fprintln(out, chatMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, renderer *glamour.TermRenderer, index int, msg internal.Message, total int) {
	actorStyle := userMessageStyle
	actorLabel := "👤 User"
	if msg.Role == internal.RoleAssistant {
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05"))
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	if renderer != nil && msg.Role == internal.RoleAssistant {
		if rendered, err := renderer.Render(content); err == nil {
			fmt.Fprintln(out, strings.TrimRight(rendered, "\n"))
			fmt.Fprintln(out)
			return
		}
	}
	fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	fmt.Fprintln(out)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
	showCmd.Flags().BoolVar(&rawShow, "raw", false, "Print assistant replies without markdown rendering")
}
