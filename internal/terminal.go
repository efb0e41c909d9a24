package internal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	activeChatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	chatIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noResultsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// TerminalOptions configures a TerminalGateway
type TerminalOptions struct {
	Markdown bool // render assistant content with glamour
	Width    int  // word wrap for markdown, 0 for 80
	Animate  bool // animated composing spinner instead of a static line
}

// TerminalGateway renders chats as styled text on a writer
type TerminalGateway struct {
	mu       sync.Mutex
	out      io.Writer
	markdown *glamour.TermRenderer
	animate  bool
	spinner  *Spinner

	lastList      string
	noResultsFor  string
	showingNoHits bool
}

// NewTerminalGateway creates a gateway writing to out
func NewTerminalGateway(out io.Writer, opts TerminalOptions) *TerminalGateway {
	g := &TerminalGateway{out: out, animate: opts.Animate}
	if opts.Markdown {
		width := opts.Width
		if width <= 0 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			LogWarn("Markdown rendering disabled: %v", err)
		} else {
			g.markdown = r
		}
	}
	g.spinner = NewSpinner(out, &g.mu, "Assistant is typing...")
	return g
}

// RenderMessage prints one message with its role label
func (g *TerminalGateway) RenderMessage(msg Message) {
	content := msg.Content
	label := userLabelStyle.Render("You")
	if msg.Role == RoleAssistant {
		label = assistantLabelStyle.Render("Assistant")
		if g.markdown != nil {
			if rendered, err := g.markdown.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			} else {
				LogDebug("Markdown render failed: %v", err)
			}
		}
	}
	ts := ""
	if !msg.Timestamp.IsZero() {
		ts = " " + timestampStyle.Render(msg.Timestamp.Local().Format("15:04"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.out, "%s%s\n%s\n\n", label, ts, messageContentStyle.Render(content))
}

// RenderChatList prints the visible chats, marking the active one. An
// unchanged list is not printed again.
func (g *TerminalGateway) RenderChatList(chats []Chat, activeID string, visible []bool) {
	var b strings.Builder
	b.WriteString(listHeaderStyle.Render("Chats"))
	b.WriteString("\n")
	for i, chat := range chats {
		if i < len(visible) && !visible[i] {
			continue
		}
		marker := "  "
		title := chat.Title
		if chat.ID == activeID {
			marker = activeChatStyle.Render("▸ ")
			title = activeChatStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", marker, chatIDStyle.Render(ShortID(chat.ID)), title)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	list := b.String()
	if list == g.lastList {
		return
	}
	g.lastList = list
	fmt.Fprint(g.out, list)
}

// ShowComposingIndicator signals that a reply is being composed
func (g *TerminalGateway) ShowComposingIndicator() {
	if g.animate {
		g.spinner.Start()
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintln(g.out, timestampStyle.Render("Assistant is typing..."))
}

// HideComposingIndicator removes the composing signal
func (g *TerminalGateway) HideComposingIndicator() {
	if !g.spinner.Running() {
		return
	}
	g.spinner.Stop()
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprint(g.out, "\r\033[K")
}

// ClearConversationView starts a fresh conversation area
func (g *TerminalGateway) ClearConversationView() {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintln(g.out, dividerStyle.Render(strings.Repeat("─", 40)))
}

// ShowNoResults prints the empty-search notice once per query
func (g *TerminalGateway) ShowNoResults(query string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.showingNoHits && g.noResultsFor == query {
		return
	}
	g.showingNoHits, g.noResultsFor = true, query
	fmt.Fprintln(g.out, noResultsStyle.Render(fmt.Sprintf("No chats found matching %q", query)))
}

// HideNoResults drops the empty-search notice
func (g *TerminalGateway) HideNoResults() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.showingNoHits, g.noResultsFor = false, ""
}

// ShortID abbreviates an identifier for display
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
