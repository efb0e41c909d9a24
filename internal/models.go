package internal

import (
	"fmt"
	"time"
)

const (
	// DefaultChatTitle is the title every new chat starts with
	DefaultChatTitle = "New chat"
	// UntitledChatTitle replaces a blank rename
	UntitledChatTitle = "Untitled"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a role string from storage or a caller
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Message represents a single message in a chat. Messages are never
// modified after they are appended.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Chat represents a titled conversation
type Chat struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Clone returns a copy of the chat that shares no message storage
func (c *Chat) Clone() Chat {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// LastMessage returns the most recent message, if any
func (c *Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Snapshot is the complete persisted state: every chat in sequence order
// plus the active chat identifier. An empty ActiveID means no chat is active.
type Snapshot struct {
	Chats    []Chat
	ActiveID string
}

// IsEmpty reports whether the snapshot holds no chats
func (s Snapshot) IsEmpty() bool {
	return len(s.Chats) == 0
}

// FindChat returns the index of the chat with the given ID, or -1
func (s Snapshot) FindChat(id string) int {
	for i := range s.Chats {
		if s.Chats[i].ID == id {
			return i
		}
	}
	return -1
}

// cloneChats deep-copies a chat sequence
func cloneChats(chats []*Chat) []Chat {
	out := make([]Chat, 0, len(chats))
	for _, c := range chats {
		out = append(out, c.Clone())
	}
	return out
}
