package internal

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh identifier for a chat or message
type IDGenerator func() string

// NewID returns a time-ordered UUIDv7, falling back to a random UUID
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store owns the chat sequence and the active chat pointer. Every mutation
// runs under one lock, writes a complete snapshot, then updates the gateway.
// Gateways are called with the lock held and must not call back into the Store.
type Store struct {
	mu       sync.Mutex
	chats    []*Chat // most recent first
	activeID string
	query    string

	persister Persister
	gateway   RenderGateway
	now       func() time.Time
	newID     IDGenerator

	lastPersistErr error
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock overrides the time source for timestamps
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier generation
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates an empty store. A nil persister keeps state in memory
// only; a nil gateway discards render calls.
func NewStore(persister Persister, gateway RenderGateway, opts ...StoreOption) *Store {
	if persister == nil {
		persister = NewSnapshotStore(NewMemoryStore())
	}
	if gateway == nil {
		gateway = NopGateway{}
	}
	s := &Store{
		persister: persister,
		gateway:   gateway,
		now:       time.Now,
		newID:     NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open restores the persisted snapshot. Unreadable storage leaves the store
// empty; the failure is logged and available from LastPersistError.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.persister.Load()
	if err != nil {
		LogWarn("Failed to load saved chats, starting empty: %v", err)
		s.lastPersistErr = err
		snapshot = Snapshot{}
	}

	s.chats = make([]*Chat, 0, len(snapshot.Chats))
	for i := range snapshot.Chats {
		chat := snapshot.Chats[i]
		s.chats = append(s.chats, &chat)
	}
	s.activeID = ""
	if snapshot.ActiveID != "" && s.findLocked(snapshot.ActiveID) >= 0 {
		s.activeID = snapshot.ActiveID
	}
	LogDebug("Loaded %d chat(s), active=%q", len(s.chats), s.activeID)

	if idx := s.findLocked(s.activeID); idx >= 0 {
		s.loadConversationLocked(s.chats[idx])
	} else {
		s.gateway.ClearConversationView()
	}
	s.refreshChatListLocked()
}

// Close writes a final snapshot
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// CreateChat prepends a new empty chat and makes it active
func (s *Store) CreateChat() Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.createLocked()
	s.persistLocked()
	s.gateway.ClearConversationView()
	s.refreshChatListLocked()
	return chat.Clone()
}

// SelectChat makes the chat with id active and renders its conversation
func (s *Store) SelectChat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return &NotFoundError{ChatID: id}
	}
	s.activeID = id
	s.persistLocked()
	s.loadConversationLocked(s.chats[idx])
	s.refreshChatListLocked()
	return nil
}

// ClearActiveChat leaves every chat in place but makes none active
func (s *Store) ClearActiveChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = ""
	s.persistLocked()
	s.gateway.ClearConversationView()
	s.refreshChatListLocked()
}

// AppendMessage appends a message to chatID
func (s *Store) AppendMessage(chatID string, role Role, content string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.appendLocked(chatID, role, content)
	if err != nil {
		return Message{}, err
	}
	s.persistLocked()
	if chatID == s.activeID {
		s.gateway.RenderMessage(msg)
	}
	return msg, nil
}

// CompleteExchange appends an assistant reply. When it completes the chat's
// first exchange, the chat is retitled from userText. Both changes are
// written as one snapshot.
func (s *Store) CompleteExchange(chatID, reply, userText string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(chatID)
	if idx < 0 {
		return Message{}, &NotFoundError{ChatID: chatID}
	}
	msg, err := s.appendLocked(chatID, RoleAssistant, reply)
	if err != nil {
		return Message{}, err
	}

	chat := s.chats[idx]
	retitled := false
	if len(chat.Messages) == 2 && chat.Messages[0].Role == RoleUser {
		if title := DeriveTitle(userText); title != "" {
			chat.Title = title
			retitled = true
		}
	}

	s.persistLocked()
	if chatID == s.activeID {
		s.gateway.RenderMessage(msg)
	}
	if retitled {
		s.refreshChatListLocked()
	}
	return msg, nil
}

// RenameChat replaces a chat's title; a blank title becomes "Untitled"
func (s *Store) RenameChat(chatID, title string) (Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(chatID)
	if idx < 0 {
		return Chat{}, &NotFoundError{ChatID: chatID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledChatTitle
	}
	s.chats[idx].Title = title
	s.persistLocked()
	s.refreshChatListLocked()
	return s.chats[idx].Clone(), nil
}

// DeleteChat removes a chat. Deleting the active chat promotes the first
// remaining chat, or creates a fresh one when none remain. The resulting
// state is persisted once.
func (s *Store) DeleteChat(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(chatID)
	if idx < 0 {
		return &NotFoundError{ChatID: chatID}
	}
	title := s.chats[idx].Title
	s.chats = append(s.chats[:idx], s.chats[idx+1:]...)

	if chatID == s.activeID {
		if len(s.chats) > 0 {
			s.activeID = s.chats[0].ID
			s.loadConversationLocked(s.chats[0])
		} else {
			s.createLocked()
			s.gateway.ClearConversationView()
		}
	}

	s.persistLocked()
	s.refreshChatListLocked()
	LogInfo("Chat %q deleted", title)
	return nil
}

// Search sets the chat list query and re-renders the list
func (s *Store) Search(query string) Projection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = strings.ToLower(query)
	return s.refreshChatListLocked()
}

// Query returns the current search query
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Projection returns the current search projection without rendering
func (s *Store) Projection() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(cloneChats(s.chats), s.query)
}

// Chats returns copies of every chat in sequence order
func (s *Store) Chats() []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChats(s.chats)
}

// Chat returns a copy of the chat with id
func (s *Store) Chat(id string) (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.findLocked(id); idx >= 0 {
		return s.chats[idx].Clone(), true
	}
	return Chat{}, false
}

// ActiveID returns the active chat identifier, or "" if none
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveChat returns a copy of the active chat
func (s *Store) ActiveChat() (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.findLocked(s.activeID); idx >= 0 {
		return s.chats[idx].Clone(), true
	}
	return Chat{}, false
}

// Snapshot returns the complete current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Chats: cloneChats(s.chats), ActiveID: s.activeID}
}

// LastPersistError returns the most recent load or save failure, if any
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersistErr
}

// ResolveID matches a full chat ID or a unique prefix of one
func (s *Store) ResolveID(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &NotFoundError{ChatID: ref}
	}
	if s.findLocked(ref) >= 0 {
		return ref, nil
	}
	var match string
	for _, c := range s.chats {
		if strings.HasPrefix(c.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("ambiguous chat id prefix %q: %w", ref, ErrNotFound)
			}
			match = c.ID
		}
	}
	if match == "" {
		return "", &NotFoundError{ChatID: ref}
	}
	return match, nil
}

func (s *Store) findLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.chats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked draws identifiers until one is unused by any chat
func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.findLocked(id) < 0 {
			return id
		}
	}
}

func (s *Store) createLocked() *Chat {
	chat := &Chat{
		ID:        s.uniqueIDLocked(),
		Title:     DefaultChatTitle,
		Messages:  []Message{},
		CreatedAt: s.now().UTC(),
	}
	s.chats = append([]*Chat{chat}, s.chats...)
	s.activeID = chat.ID
	LogDebug("Created chat %s", chat.ID)
	return chat
}

func (s *Store) appendLocked(chatID string, role Role, content string) (Message, error) {
	if chatID == "" {
		return Message{}, ErrNoActiveChat
	}
	idx := s.findLocked(chatID)
	if idx < 0 {
		return Message{}, fmt.Errorf("%w: chat %s does not exist", ErrNoActiveChat, chatID)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Message{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Message{}, ErrEmptyMessage
	}

	msg := Message{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	chat := s.chats[idx]
	chat.Messages = append(chat.Messages, msg)
	return msg, nil
}

func (s *Store) persistLocked() error {
	snapshot := Snapshot{Chats: cloneChats(s.chats), ActiveID: s.activeID}
	if err := s.persister.Save(snapshot); err != nil {
		LogWarn("Failed to save chats, continuing in memory: %v", err)
		s.lastPersistErr = err
		return err
	}
	s.lastPersistErr = nil
	return nil
}

func (s *Store) loadConversationLocked(chat *Chat) {
	s.gateway.ClearConversationView()
	for _, msg := range chat.Messages {
		s.gateway.RenderMessage(msg)
	}
}

func (s *Store) refreshChatListLocked() Projection {
	chats := cloneChats(s.chats)
	p := Project(chats, s.query)
	s.gateway.RenderChatList(chats, s.activeID, p.Visible)
	if p.NoResults() {
		s.gateway.ShowNoResults(s.query)
	} else {
		s.gateway.HideNoResults()
	}
	return p
}
