package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	listSearch string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved chats",
	Long:  `List all saved chats, most recent first. The active chat is marked with ▸.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(nil)
		if err != nil {
			return err
		}
		defer closeStore()

		chats := store.Chats()
		var visible []bool
		if listSearch != "" {
			p := store.Search(listSearch)
			if p.NoResults() {
				fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(fmt.Sprintf("No chats found matching %q", p.Query)))
				return nil
			}
			visible = p.Visible
		}

		printChatTable(cmd.OutOrStdout(), chats, store.ActiveID(), visible)
		return nil
	},
}

// printChatTable writes the chats whose visible flag is set (all when nil)
func printChatTable(out io.Writer, chats []internal.Chat, activeID string, visible []bool) {
	if len(chats) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No chats yet"))
		return
	}

	shown := chats
	if visible != nil {
		shown = internal.Projection{Visible: visible, Count: len(chats)}.Filter(chats)
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d chat(s)", len(shown))))
	fmt.Fprintln(out)
	if len(shown) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, chat := range shown {
		marker := " "
		title := chat.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		if chat.ID == activeID {
			marker = activeStyle.Render("▸")
			title = activeStyle.Render(title)
		}

		msgCount := countStyle.Render(strconv.Itoa(len(chat.Messages)))
		id := idStyle.Render(internal.ShortID(chat.ID))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", marker, id, title, msgCount, formatCreated(chat.CreatedAt))
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use an ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(internal.ShortID(shown[0].ID))+
		idStyle.Render(") with `chat-bot show <id>`"))
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return dateStyle.Render("—")
	}
	t = t.Local()
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only list chats whose title contains this text")
}
