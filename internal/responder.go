package internal

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Responder produces the assistant's reply to a user message
type Responder interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// ResponderFunc adapts a function to a Responder
type ResponderFunc func(ctx context.Context, userText string) (string, error)

// Generate calls f
func (f ResponderFunc) Generate(ctx context.Context, userText string) (string, error) {
	return f(ctx, userText)
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the wall-clock Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

const simulatedSuffix = "This is a simulated response. In a real implementation, you would connect this to an actual AI API."

var genericReplies = []string{
	"I understand you're asking about that. Let me help you with that.",
	"That's an interesting question! Here's what I can tell you about it.",
	"I'd be happy to help you with that. Let me provide some information.",
	"Great question! Let me break this down for you.",
	"I can help you with that. Here's what you need to know.",
	"That's a good point. Let me explain this in detail.",
	"I understand what you're looking for. Here's my response.",
	"Thanks for asking! Here's what I can share about that topic.",
}

var keywordReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi"}, "Hello! How can I help you today?"},
	{[]string{"thank"}, "You're welcome! Is there anything else I can help you with?"},
	{[]string{"story", "creative"}, "I'd be happy to help you write a creative story! What kind of story would you like to create? What genre or theme interests you?"},
	{[]string{"code", "debug"}, "I can help you with coding and debugging! What programming language are you working with, and what specific issue are you facing?"},
	{[]string{"explain", "concept"}, "I'd be glad to explain that concept for you! Could you provide more details about what specifically you'd like me to explain?"},
	{[]string{"poem"}, "I'd love to help you write a poem! What style or theme would you like? Are you thinking of a specific type of poem like a haiku, sonnet, or free verse?"},
}

// CannedResponder answers from a fixed keyword table after a randomized
// composing delay
type CannedResponder struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Sleep    Sleeper

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCannedResponder creates a responder with a 1-3 second composing delay
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{
		MinDelay: time.Second,
		MaxDelay: 3 * time.Second,
		Sleep:    SleepContext,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate waits out the composing delay and returns a canned reply
func (r *CannedResponder) Generate(ctx context.Context, userText string) (string, error) {
	sleep := r.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	if err := sleep(ctx, r.delay()); err != nil {
		return "", err
	}
	return r.reply(userText), nil
}

func (r *CannedResponder) delay() time.Duration {
	if r.MaxDelay <= r.MinDelay {
		return r.MinDelay
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.MinDelay + time.Duration(r.source().Int63n(int64(r.MaxDelay-r.MinDelay)))
}

func (r *CannedResponder) reply(userText string) string {
	lower := strings.ToLower(userText)
	for _, kr := range keywordReplies {
		for _, kw := range kr.keywords {
			if strings.Contains(lower, kw) {
				return kr.reply
			}
		}
	}
	return genericReplies[r.intn(len(genericReplies))] + " " + simulatedSuffix
}

func (r *CannedResponder) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source().Intn(n)
}

// source returns the generator; r.mu must be held
func (r *CannedResponder) source() *rand.Rand {
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r.rng
}
