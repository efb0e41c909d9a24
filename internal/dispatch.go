package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Intent is a typed request from the view layer
type Intent interface {
	intentName() string
}

// NewChat asks for a fresh active chat
type NewChat struct{}

// SendMessage sends user text to the active chat
type SendMessage struct{ Text string }

// SelectChat makes a chat active
type SelectChat struct{ ChatID string }

// DeleteChat removes a chat
type DeleteChat struct{ ChatID string }

// RenameChat retitles a chat
type RenameChat struct {
	ChatID string
	Title  string
}

// Search filters the chat list by title
type Search struct{ Query string }

// ShowWelcome deselects the active chat
type ShowWelcome struct{}

func (NewChat) intentName() string     { return "new-chat" }
func (SendMessage) intentName() string { return "send-message" }
func (SelectChat) intentName() string  { return "select-chat" }
func (DeleteChat) intentName() string  { return "delete-chat" }
func (RenameChat) intentName() string  { return "rename-chat" }
func (Search) intentName() string      { return "search" }
func (ShowWelcome) intentName() string { return "show-welcome" }

// Result carries what an intent produced
type Result struct {
	Chat       *Chat       // NewChat, RenameChat
	Turn       *Turn       // SendMessage
	Projection *Projection // Search
}

// Dispatcher is the single entry point from the view into the core
type Dispatcher struct {
	store *Store
	turns *TurnController
}

// NewDispatcher routes intents to store and turns
func NewDispatcher(store *Store, turns *TurnController) *Dispatcher {
	return &Dispatcher{store: store, turns: turns}
}

// Store returns the session store
func (d *Dispatcher) Store() *Store { return d.store }

// Turns returns the turn controller
func (d *Dispatcher) Turns() *TurnController { return d.turns }

// Dispatch executes one intent. Recoverable failures (unknown chat, busy,
// empty message) are logged and returned; state is left unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) (Result, error) {
	var (
		res Result
		err error
	)

	switch in := intent.(type) {
	case NewChat:
		chat := d.store.CreateChat()
		res.Chat = &chat
	case SendMessage:
		res.Turn, err = d.turns.Send(ctx, in.Text)
	case SelectChat:
		var id string
		if id, err = d.store.ResolveID(in.ChatID); err == nil {
			err = d.store.SelectChat(id)
		}
	case DeleteChat:
		var id string
		if id, err = d.store.ResolveID(in.ChatID); err == nil {
			err = d.store.DeleteChat(id)
		}
	case RenameChat:
		var id string
		if id, err = d.store.ResolveID(in.ChatID); err == nil {
			var chat Chat
			if chat, err = d.store.RenameChat(id, in.Title); err == nil {
				res.Chat = &chat
			}
		}
	case Search:
		p := d.store.Search(in.Query)
		res.Projection = &p
	case ShowWelcome:
		d.store.ClearActiveChat()
	case nil:
		err = errors.New("nil intent")
	default:
		err = fmt.Errorf("unsupported intent %T", intent)
	}

	if err != nil && isRecoverable(err) {
		LogDebug("Intent %s ignored: %v", intentName(intent), err)
	}
	return res, err
}

func isRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrNoActiveChat)
}

func intentName(intent Intent) string {
	if intent == nil {
		return "<nil>"
	}
	return intent.intentName()
}

// ParseIntent turns a line typed in a terminal into an intent. Lines that
// are not slash commands are messages.
func ParseIntent(line string) (Intent, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return SendMessage{Text: line}, nil
	}

	command, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "/new":
		return NewChat{}, nil
	case "/select", "/open":
		if rest == "" {
			return nil, fmt.Errorf("usage: %s <chat-id>", command)
		}
		return SelectChat{ChatID: rest}, nil
	case "/delete", "/rm":
		if rest == "" {
			return nil, fmt.Errorf("usage: %s <chat-id>", command)
		}
		return DeleteChat{ChatID: rest}, nil
	case "/rename":
		id, title, _ := strings.Cut(rest, " ")
		if id == "" {
			return nil, fmt.Errorf("usage: %s <chat-id> <title>", command)
		}
		return RenameChat{ChatID: id, Title: title}, nil
	case "/search":
		return Search{Query: strings.ToLower(rest)}, nil
	case "/home", "/welcome":
		return ShowWelcome{}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}
