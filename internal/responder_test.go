package internal

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponder(slept *[]time.Duration) *CannedResponder {
	return &CannedResponder{
		MinDelay: time.Second,
		MaxDelay: 3 * time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return ctx.Err()
		},
		rng: rand.New(rand.NewSource(1)),
	}
}

func TestCannedResponderKeywords(t *testing.T) {
	var slept []time.Duration
	r := newTestResponder(&slept)

	tests := []struct {
		input string
		want  string
	}{
		{"Hello!", "Hello! How can I help you today?"},
		{"hi", "Hello! How can I help you today?"},
		{"Is this working?", "Hello! How can I help you today?"}, // "this" contains "hi"
		{"Thanks a lot", "You're welcome! Is there anything else I can help you with?"},
		{"Tell me a STORY", "I'd be happy to help you write a creative story!"},
		{"can you debug my code", "I can help you with coding and debugging!"},
		{"explain recursion", "I'd be glad to explain that concept for you!"},
		{"write a poem", "I'd love to help you write a poem!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Generate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, tt.want), "got %q", got)
		})
	}
}

func TestCannedResponderGenericReply(t *testing.T) {
	var slept []time.Duration
	r := newTestResponder(&slept)

	got, err := r.Generate(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, simulatedSuffix), "got %q", got)

	found := false
	for _, g := range genericReplies {
		if strings.HasPrefix(got, g) {
			found = true
		}
	}
	assert.True(t, found, "reply should start with a generic reply: %q", got)
}

func TestCannedResponderDelay(t *testing.T) {
	var slept []time.Duration
	r := newTestResponder(&slept)

	for i := 0; i < 20; i++ {
		_, err := r.Generate(context.Background(), "x")
		require.NoError(t, err)
	}
	require.Len(t, slept, 20)
	for _, d := range slept {
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 3*time.Second)
	}

	r.MinDelay, r.MaxDelay = 5*time.Millisecond, 0
	slept = slept[:0]
	_, err := r.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, slept)
}

func TestCannedResponderWideDelayRange(t *testing.T) {
	var slept []time.Duration
	r := newTestResponder(&slept)
	r.MinDelay, r.MaxDelay = 0, 10*time.Second

	for i := 0; i < 50; i++ {
		_, err := r.Generate(context.Background(), "x")
		require.NoError(t, err)
	}
	for _, d := range slept {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 10*time.Second)
	}
}

func TestCannedResponderCancelled(t *testing.T) {
	var slept []time.Duration
	r := newTestResponder(&slept)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Generate(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
