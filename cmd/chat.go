package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

const chatHelp = `Commands:
  /new                  start a new chat
  /list                 show the chat list
  /select <id>          switch to a chat (a unique id prefix is enough)
  /rename <id> <title>  rename a chat
  /delete <id>          delete a chat
  /search <text>        filter the chat list by title (empty clears)
  /home                 leave the current chat
  /help                 show this help
  /quit                 exit
Anything else is sent as a message.`

const welcomeText = `Welcome! Type a message to start a new chat, or /help for commands.`

// chatCmd represents the interactive chat loop
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat (default)",
	Long: `Start an interactive chat session.

Messages are sent to the assistant one at a time; the prompt returns once the
reply has arrived. Type /help for the list of commands.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	gateway := internal.NewTerminalGateway(out, internal.TerminalOptions{
		Markdown: cfg.Markdown,
		Animate:  internal.IsTerminal(out),
	})

	store, closeStore, err := openStore(gateway)
	if err != nil {
		return err
	}
	defer closeStore()
	defer func() {
		// Retry a save that failed during the session. Unreadable saved data
		// is left alone unless the session changed something.
		var parseErr *internal.ParseError
		if err := store.LastPersistError(); err != nil && !errors.As(err, &parseErr) {
			if err := store.Close(); err != nil {
				internal.PrintWarning(fmt.Sprintf("Unsaved changes were lost: %v", err))
			}
		}
	}()

	responder := internal.NewCannedResponder()
	responder.MinDelay = cfg.Responder.MinDelay
	responder.MaxDelay = cfg.Responder.MaxDelay
	turns := internal.NewTurnController(store, responder, internal.WithResponseTimeout(cfg.Responder.Timeout))
	dispatcher := internal.NewDispatcher(store, turns)

	if _, ok := store.ActiveChat(); !ok {
		fmt.Fprintln(out, helpStyle.Render(welcomeText))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptStyle.Render("> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       filepath.Join(internal.DefaultDataDir(), "history"),
		HistorySearchFold: true,
		Stdin:             io.NopCloser(cmd.InOrStdin()),
		Stdout:            out,
		Stderr:            cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	err = chatLoop(cmd.Context(), rl, dispatcher, out, confirmFor(cmd.InOrStdin()))
	if waitErr := finishPendingTurn(turns, shutdownGrace); waitErr != nil {
		internal.PrintWarning(fmt.Sprintf("Exited before the last reply arrived: %v", waitErr))
	}
	internal.Logger().Debug("chat session ended", "chats", len(store.Chats()), "active", store.ActiveID())
	return err
}

// shutdownGrace bounds how long exit waits for a pending reply
const shutdownGrace = 5 * time.Second

// finishPendingTurn waits up to grace for a pending reply so it is saved
// before storage closes
func finishPendingTurn(turns *internal.TurnController, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return turns.Wait(ctx)
}

// lineReader is the part of readline the chat loop needs
type lineReader interface {
	Readline() (string, error)
}

// chatLoop reads lines until EOF, an interrupt on an empty line, or /quit.
// Deletes are confirmed through confirm when it is non-nil.
func chatLoop(ctx context.Context, rl lineReader, d *internal.Dispatcher, out io.Writer, confirm func(string) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, helpStyle.Render(chatHelp))
			continue
		case "/list":
			printChatTable(out, d.Store().Chats(), d.Store().ActiveID(), nil)
			continue
		}

		intent, err := internal.ParseIntent(line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ "+err.Error()))
			continue
		}
		if del, ok := intent.(internal.DeleteChat); ok && !confirmDelete(d.Store(), del.ChatID, confirm) {
			continue
		}

		res, err := d.Dispatch(ctx, intent)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ "+err.Error()))
			continue
		}
		switch in := intent.(type) {
		case internal.ShowWelcome:
			fmt.Fprintln(out, helpStyle.Render(welcomeText))
		case internal.RenameChat:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Renamed to %q", res.Chat.Title)))
		case internal.Search:
			if in.Query != "" && res.Projection != nil && !res.Projection.NoResults() {
				fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("%d chat(s) match %q", res.Projection.Count, in.Query)))
			}
		}

		if res.Turn != nil {
			if err := res.Turn.Wait(ctx); err != nil && !errors.Is(err, internal.ErrNotFound) {
				internal.LogDebug("Turn finished with error: %v", err)
			}
		}
	}
}

func confirmDelete(store *internal.Store, ref string, confirm func(string) bool) bool {
	if confirm == nil {
		return true
	}
	id, err := store.ResolveID(ref)
	if err != nil {
		return true // let dispatch report it
	}
	chat, _ := store.Chat(id)
	return confirm(fmt.Sprintf("Delete chat %q?", chat.Title))
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
