package internal

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreSaveLoad(t *testing.T) {
	kv := NewMemoryStore()
	ss := NewSnapshotStore(kv)

	want := Snapshot{
		Chats: []Chat{
			CreateTestChat("chat-2", "Second"),
			CreateTestChat("chat-1", "First"),
		},
		ActiveID: "chat-1",
	}
	require.NoError(t, ss.Save(want))

	got, err := ss.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSnapshotStoreWireFormat(t *testing.T) {
	kv := NewMemoryStore()
	ss := NewSnapshotStore(kv)
	require.NoError(t, ss.Save(Snapshot{Chats: []Chat{CreateTestChat("c1", "Hi")}, ActiveID: "c1"}))

	raw, ok, err := kv.Get(ChatsKey)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	for _, field := range []string{"id", "title", "messages", "createdAt"} {
		assert.Contains(t, decoded[0], field)
	}
	msgs := decoded[0]["messages"].([]interface{})
	first := msgs[0].(map[string]interface{})
	for _, field := range []string{"id", "role", "content", "timestamp"} {
		assert.Contains(t, first, field)
	}

	active, ok, _ := kv.Get(ActiveChatKey)
	assert.True(t, ok)
	assert.Equal(t, "c1", active)
}

func TestSnapshotStoreNoActiveChatDeletesKey(t *testing.T) {
	kv := NewMemoryStore()
	ss := NewSnapshotStore(kv)
	require.NoError(t, ss.Save(Snapshot{Chats: []Chat{CreateTestChat("c1", "Hi")}, ActiveID: "c1"}))
	require.NoError(t, ss.Save(Snapshot{Chats: []Chat{CreateTestChat("c1", "Hi")}}))

	_, ok, _ := kv.Get(ActiveChatKey)
	assert.False(t, ok)

	require.NoError(t, ss.Save(Snapshot{}))
	raw, _, _ := kv.Get(ChatsKey)
	assert.Equal(t, "[]", raw)
}

func TestSnapshotStoreLoad(t *testing.T) {
	tests := []struct {
		name       string
		chats      string
		active     string
		setActive  bool
		wantChats  int
		wantActive string
		wantParse  bool
	}{
		{
			name:      "empty storage",
			wantChats: 0,
		},
		{
			name:      "corrupt chats",
			chats:     `[{"id":`,
			wantParse: true,
		},
		{
			name:       "null active",
			chats:      `[{"id":"a","title":"A","messages":[],"createdAt":"2024-01-01T00:00:00Z"}]`,
			active:     "null",
			setActive:  true,
			wantChats:  1,
			wantActive: "",
		},
		{
			name:       "dangling active",
			chats:      `[{"id":"a","title":"A","messages":[],"createdAt":"2024-01-01T00:00:00Z"}]`,
			active:     "gone",
			setActive:  true,
			wantChats:  1,
			wantActive: "",
		},
		{
			name: "duplicate and empty ids",
			chats: `[{"id":"a","title":"A","messages":[]},
				{"id":"a","title":"A again","messages":[]},
				{"id":"","title":"nameless","messages":[]}]`,
			active:     "a",
			setActive:  true,
			wantChats:  1,
			wantActive: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryStore()
			if tt.chats != "" {
				kv.Set(ChatsKey, tt.chats)
			}
			if tt.setActive {
				kv.Set(ActiveChatKey, tt.active)
			}

			got, err := NewSnapshotStore(kv).Load()
			if tt.wantParse {
				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr), "want ParseError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Chats, tt.wantChats)
			assert.Equal(t, tt.wantActive, got.ActiveID)
		})
	}
}

func TestNormalizeSnapshot(t *testing.T) {
	in := Snapshot{
		Chats: []Chat{
			{ID: "a", Title: "  ", Messages: []Message{
				{ID: "m1", Role: RoleUser, Content: "hi"},
				{ID: "m2", Role: "system", Content: "dropped"},
			}},
		},
		ActiveID: "a",
	}

	out := normalizeSnapshot(in)
	require.Len(t, out.Chats, 1)
	assert.Equal(t, DefaultChatTitle, out.Chats[0].Title)
	require.Len(t, out.Chats[0].Messages, 1)
	assert.Equal(t, "m1", out.Chats[0].Messages[0].ID)
	assert.Equal(t, "a", out.ActiveID)
}
