package internal

import (
	"fmt"
	"sync"
	"time"
)

// TestEpoch is the fixed start time used by test clocks
var TestEpoch = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// SteppingClock returns a clock starting at TestEpoch that advances by step
// on every call
func SteppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := TestEpoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(step)
		return now
	}
}

// CreateTestChat creates a chat with one completed exchange
func CreateTestChat(id, title string) Chat {
	return Chat{
		ID:    id,
		Title: title,
		Messages: []Message{
			{
				ID:        id + "-m1",
				Role:      RoleUser,
				Content:   "Hello, how are you?",
				Timestamp: TestEpoch,
			},
			{
				ID:        id + "-m2",
				Role:      RoleAssistant,
				Content:   "I'm doing well, thank you!",
				Timestamp: TestEpoch.Add(2 * time.Second),
			},
		},
		CreatedAt: TestEpoch,
	}
}

// CreateTestChatWithMessages creates a chat with custom messages
func CreateTestChatWithMessages(id string, messages []Message) Chat {
	return Chat{
		ID:        id,
		Title:     DefaultChatTitle,
		Messages:  messages,
		CreatedAt: TestEpoch,
	}
}

// GatewayEvent is one call recorded by RecordingGateway
type GatewayEvent struct {
	Kind     string // method name
	Message  Message
	Chats    []Chat
	ActiveID string
	Visible  []bool
	Query    string
}

// RecordingGateway records every render call for assertions
type RecordingGateway struct {
	mu     sync.Mutex
	events []GatewayEvent
}

func (g *RecordingGateway) record(ev GatewayEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, ev)
}

func (g *RecordingGateway) RenderMessage(msg Message) {
	g.record(GatewayEvent{Kind: "RenderMessage", Message: msg})
}

func (g *RecordingGateway) RenderChatList(chats []Chat, activeID string, visible []bool) {
	v := make([]bool, len(visible))
	copy(v, visible)
	g.record(GatewayEvent{Kind: "RenderChatList", Chats: chats, ActiveID: activeID, Visible: v})
}

func (g *RecordingGateway) ShowComposingIndicator() {
	g.record(GatewayEvent{Kind: "ShowComposingIndicator"})
}

func (g *RecordingGateway) HideComposingIndicator() {
	g.record(GatewayEvent{Kind: "HideComposingIndicator"})
}

func (g *RecordingGateway) ClearConversationView() {
	g.record(GatewayEvent{Kind: "ClearConversationView"})
}

func (g *RecordingGateway) ShowNoResults(query string) {
	g.record(GatewayEvent{Kind: "ShowNoResults", Query: query})
}

func (g *RecordingGateway) HideNoResults() {
	g.record(GatewayEvent{Kind: "HideNoResults"})
}

// Events returns a copy of the recorded calls
func (g *RecordingGateway) Events() []GatewayEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GatewayEvent, len(g.events))
	copy(out, g.events)
	return out
}

// Count returns how many calls of kind were recorded
func (g *RecordingGateway) Count(kind string) int {
	n := 0
	for _, ev := range g.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent call of kind
func (g *RecordingGateway) Last(kind string) (GatewayEvent, bool) {
	events := g.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == kind {
			return events[i], true
		}
	}
	return GatewayEvent{}, false
}

// Reset drops all recorded calls
func (g *RecordingGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = nil
}
