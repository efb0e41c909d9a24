package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines; "^C" stands for an interrupt
type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func newTestDispatcher(t *testing.T) *internal.Dispatcher {
	t.Helper()
	store := internal.NewStore(nil, nil,
		internal.WithIDGenerator(internal.SequentialIDs("chat")),
		internal.WithClock(internal.SteppingClock(1)),
	)
	store.Open()

	responder := internal.NewCannedResponder()
	responder.MinDelay, responder.MaxDelay = 0, 0
	return internal.NewDispatcher(store, internal.NewTurnController(store, responder))
}

func TestChatLoop_Conversation(t *testing.T) {
	d := newTestDispatcher(t)
	var out bytes.Buffer

	reader := &scriptedReader{lines: []string{"", "hello there", "/list", "thanks a lot"}}
	require.NoError(t, chatLoop(context.Background(), reader, d, &out, nil))

	chat, ok := d.Store().ActiveChat()
	require.True(t, ok)
	assert.Equal(t, "hello there", chat.Title)
	require.Len(t, chat.Messages, 4)
	assert.Equal(t, internal.RoleUser, chat.Messages[0].Role)
	assert.Equal(t, internal.RoleAssistant, chat.Messages[1].Role)
	assert.Contains(t, chat.Messages[3].Content, "You're welcome")
	assert.Equal(t, internal.TurnIdle, d.Turns().State())
	assert.Contains(t, out.String(), "1 chat(s)")
}

func TestChatLoop_Commands(t *testing.T) {
	d := newTestDispatcher(t)
	id := d.Store().CreateChat().ID
	var out bytes.Buffer

	reader := &scriptedReader{lines: []string{
		"/rename " + id + " Trip plans",
		"/search TRIP",
		"/search nothing-like-this",
		"/home",
		"/bogus",
		"/select missing",
		"/help",
		"/delete " + id,
		"^C",
		"never read",
	}}
	require.NoError(t, chatLoop(context.Background(), reader, d, &out, nil))

	output := out.String()
	assert.Contains(t, output, `Renamed to "Trip plans"`)
	assert.Contains(t, output, `1 chat(s) match "trip"`)
	assert.Contains(t, output, welcomeText)
	assert.Contains(t, output, "unknown command: /bogus")
	assert.Contains(t, output, "chat not found: missing")
	assert.Contains(t, output, "/rename <id> <title>")

	assert.Empty(t, d.Store().Chats())
	assert.Empty(t, d.Store().ActiveID())
	assert.Equal(t, []string{"never read"}, reader.lines)
}

func TestChatLoop_Quit(t *testing.T) {
	for _, cmd := range []string{"/quit", "/exit", "/QUIT"} {
		t.Run(cmd, func(t *testing.T) {
			d := newTestDispatcher(t)
			reader := &scriptedReader{lines: []string{cmd, "hello"}}
			require.NoError(t, chatLoop(context.Background(), reader, d, io.Discard, nil))
			assert.Empty(t, d.Store().Chats(), "nothing after quit is sent")
		})
	}
}

func TestChatLoop_DeleteDeclined(t *testing.T) {
	d := newTestDispatcher(t)
	id := d.Store().CreateChat().ID

	var asked []string
	decline := func(question string) bool {
		asked = append(asked, question)
		return false
	}
	reader := &scriptedReader{lines: []string{"/delete " + id}}
	require.NoError(t, chatLoop(context.Background(), reader, d, io.Discard, decline))

	assert.Equal(t, []string{`Delete chat "New chat"?`}, asked)
	assert.Len(t, d.Store().Chats(), 1)
}

func TestFinishPendingTurn(t *testing.T) {
	release := make(chan struct{})
	store := internal.NewStore(nil, nil)
	store.Open()
	responder := internal.ResponderFunc(func(ctx context.Context, _ string) (string, error) {
		<-release
		return "late reply", nil
	})
	turns := internal.NewTurnController(store, responder)

	// Cancelled loop context: the loop's own wait gives up immediately
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := &scriptedReader{lines: []string{"hello there"}}
	require.NoError(t, chatLoop(ctx, reader, internal.NewDispatcher(store, turns), io.Discard, nil))
	assert.Equal(t, internal.TurnAwaitingResponse, turns.State())

	err := finishPendingTurn(turns, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	time.AfterFunc(20*time.Millisecond, func() { close(release) })
	require.NoError(t, finishPendingTurn(turns, 5*time.Second))

	assert.Equal(t, internal.TurnIdle, turns.State())
	chat, ok := store.ActiveChat()
	require.True(t, ok)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "late reply", chat.Messages[1].Content)
}
