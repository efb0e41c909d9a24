package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TurnState is the message-exchange state of a TurnController
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnAwaitingResponse
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnAwaitingResponse:
		return "awaiting-response"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

// Turn is one user message and its pending reply. Reply and Err are valid
// once Done is closed.
type Turn struct {
	chatID      string
	userMessage Message
	done        chan struct{}

	reply    Message
	hasReply bool
	err      error
}

// ChatID returns the chat the turn was sent to
func (t *Turn) ChatID() string { return t.chatID }

// UserMessage returns the appended user message
func (t *Turn) UserMessage() Message { return t.userMessage }

// Done is closed when the reply has been appended or dropped
func (t *Turn) Done() <-chan struct{} { return t.done }

// Reply returns the appended assistant message, if any
func (t *Turn) Reply() (Message, bool) { return t.reply, t.hasReply }

// Err returns the responder or append failure, if any
func (t *Turn) Err() error { return t.err }

// Wait blocks until the turn completes or ctx is done
func (t *Turn) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TurnController gates sends: one user message at a time, each followed by
// exactly one assistant message.
type TurnController struct {
	store     *Store
	responder Responder
	gateway   RenderGateway
	timeout   time.Duration

	mu      sync.Mutex
	state   TurnState
	pending *Turn
}

// TurnOption configures a TurnController
type TurnOption func(*TurnController)

// WithResponseTimeout bounds how long a turn waits for its reply; zero means
// no limit. A responder still running at the deadline is abandoned.
func WithResponseTimeout(d time.Duration) TurnOption {
	return func(tc *TurnController) { tc.timeout = d }
}

// NewTurnController creates a controller that sends through store
func NewTurnController(store *Store, responder Responder, opts ...TurnOption) *TurnController {
	tc := &TurnController{
		store:     store,
		responder: responder,
		gateway:   store.gateway,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// State returns the current state
func (tc *TurnController) State() TurnState {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.state
}

// Send appends a user message to the active chat (creating one if needed)
// and requests a reply in the background. While a reply is pending it
// returns ErrBusy and changes nothing.
func (tc *TurnController) Send(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.state == TurnAwaitingResponse {
		LogDebug("Ignoring send while awaiting response for chat %s", tc.pending.chatID)
		return nil, ErrBusy
	}

	chatID := tc.store.ActiveID()
	if chatID == "" {
		chatID = tc.store.CreateChat().ID
	}
	msg, err := tc.store.AppendMessage(chatID, RoleUser, text)
	if err != nil {
		return nil, err
	}

	turn := &Turn{
		chatID:      chatID,
		userMessage: msg,
		done:        make(chan struct{}),
	}
	tc.state = TurnAwaitingResponse
	tc.pending = turn
	tc.gateway.ShowComposingIndicator()

	go tc.respond(context.WithoutCancel(ctx), turn, text)
	return turn, nil
}

// Wait blocks until no reply is pending or ctx is done
func (tc *TurnController) Wait(ctx context.Context) error {
	tc.mu.Lock()
	turn := tc.pending
	tc.mu.Unlock()
	if turn == nil {
		return nil
	}
	select {
	case <-turn.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tc *TurnController) respond(ctx context.Context, turn *Turn, text string) {
	if tc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tc.timeout)
		defer cancel()
	}

	reply, err := tc.generate(ctx, text)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty response")
	}
	tc.finish(turn, text, reply, err)
}

// generate calls the responder on its own goroutine so a responder that
// ignores ctx cannot hold the controller past its deadline. A panic becomes
// an error so the controller always returns to idle.
func (tc *TurnController) generate(ctx context.Context, text string) (string, error) {
	type result struct {
		reply string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		var res result
		defer func() {
			if r := recover(); r != nil {
				res = result{err: fmt.Errorf("responder panic: %v", r)}
			}
			done <- res
		}()
		res.reply, res.err = tc.responder.Generate(ctx, text)
	}()

	select {
	case res := <-done:
		return res.reply, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (tc *TurnController) finish(turn *Turn, userText, reply string, genErr error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.gateway.HideComposingIndicator()

	content := reply
	if genErr != nil {
		LogWarn("Response generation failed for chat %s: %v", turn.chatID, genErr)
		content = fmt.Sprintf("Sorry, I couldn't generate a response: %v", genErr)
		turn.err = genErr
	}

	msg, err := tc.store.CompleteExchange(turn.chatID, content, userText)
	if err != nil {
		LogWarn("Dropping reply for chat %s: %v", turn.chatID, err)
		if turn.err == nil {
			turn.err = err
		}
	} else {
		turn.reply = msg
		turn.hasReply = true
	}

	tc.state = TurnIdle
	tc.pending = nil
	close(turn.done)
}
