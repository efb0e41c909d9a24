package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Storage keys for the two halves of a snapshot
const (
	ChatsKey      = "chatbot_chats"
	ActiveChatKey = "chatbot_current_chat"
)

// Persister durably saves and restores complete snapshots
type Persister interface {
	Save(snapshot Snapshot) error
	Load() (Snapshot, error)
}

// SnapshotStore persists snapshots as two keys of a KeyValueStore
type SnapshotStore struct {
	kv KeyValueStore
}

// NewSnapshotStore creates a Persister over kv
func NewSnapshotStore(kv KeyValueStore) *SnapshotStore {
	return &SnapshotStore{kv: kv}
}

// Save writes both keys in one batch. With no active chat the active key is
// removed rather than written.
func (s *SnapshotStore) Save(snapshot Snapshot) error {
	chats := snapshot.Chats
	if chats == nil {
		chats = []Chat{}
	}
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to marshal chats: %w", err)
	}

	puts := []KeyValuePair{{Key: ChatsKey, Value: string(data)}}
	var deletes []string
	if snapshot.ActiveID != "" {
		puts = append(puts, KeyValuePair{Key: ActiveChatKey, Value: snapshot.ActiveID})
	} else {
		deletes = append(deletes, ActiveChatKey)
	}
	return s.kv.WriteBatch(puts, deletes)
}

// Load reads the snapshot. A missing snapshot is empty and not an error.
func (s *SnapshotStore) Load() (Snapshot, error) {
	raw, ok, err := s.kv.Get(ChatsKey)
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if ok && strings.TrimSpace(raw) != "" {
		var chats []Chat
		if err := json.Unmarshal([]byte(raw), &chats); err != nil {
			return Snapshot{}, &ParseError{Source: "snapshot", Key: ChatsKey, Err: err}
		}
		snapshot.Chats = chats
	}

	active, ok, err := s.kv.Get(ActiveChatKey)
	if err != nil {
		return Snapshot{}, err
	}
	if ok && active != "null" {
		snapshot.ActiveID = strings.TrimSpace(active)
	}

	return normalizeSnapshot(snapshot), nil
}

// normalizeSnapshot enforces store invariants on data read from storage
func normalizeSnapshot(snapshot Snapshot) Snapshot {
	seen := make(map[string]bool, len(snapshot.Chats))
	chats := make([]Chat, 0, len(snapshot.Chats))
	for _, chat := range snapshot.Chats {
		if chat.ID == "" {
			LogWarn("Dropping persisted chat with empty id")
			continue
		}
		if seen[chat.ID] {
			LogWarn("Dropping duplicate persisted chat %s", chat.ID)
			continue
		}
		seen[chat.ID] = true

		if strings.TrimSpace(chat.Title) == "" {
			chat.Title = DefaultChatTitle
		}
		messages := make([]Message, 0, len(chat.Messages))
		for _, msg := range chat.Messages {
			if _, err := ParseRole(string(msg.Role)); err != nil {
				LogWarn("Dropping message %s in chat %s: %v", msg.ID, chat.ID, err)
				continue
			}
			messages = append(messages, msg)
		}
		chat.Messages = messages
		chats = append(chats, chat)
	}

	snapshot.Chats = chats
	if snapshot.ActiveID != "" && !seen[snapshot.ActiveID] {
		LogDebug("Persisted active chat %s no longer exists", snapshot.ActiveID)
		snapshot.ActiveID = ""
	}
	return snapshot
}
