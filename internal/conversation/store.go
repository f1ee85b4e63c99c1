package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when the requested conversation id does not exist.
	ErrNotFound = errors.New("conversation: not found")
	// ErrAlreadyExists is returned when creating an id that is already stored.
	ErrAlreadyExists = errors.New("conversation: already exists")
)

// Store persists conversations keyed by id. Implementations must be safe for
// concurrent use; the Service additionally serializes read-modify-append
// sequences per conversation id, so Append never races with itself for the
// same id.
type Store interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	// Append persists the conversation after messages were appended and the
	// aggregate state updated.
	Append(ctx context.Context, conv *Conversation) error
	List(ctx context.Context) ([]ListItem, error)
}

// MemoryStore keeps conversations in a process-local map. State is lost on
// restart; callers needing durability pick one of the backed stores.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string]*Conversation)}
}

// Get returns a copy of the stored conversation, so readers never alias the
// stored state.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	conv, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return cloneConversation(conv)
}

// Create stores a new conversation.
func (s *MemoryStore) Create(ctx context.Context, conv *Conversation) error {
	clone, err := cloneConversation(conv)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.conversations[conv.ID]; exists {
		return ErrAlreadyExists
	}
	s.conversations[conv.ID] = clone
	return nil
}

// Append replaces the stored conversation with the updated state.
func (s *MemoryStore) Append(ctx context.Context, conv *Conversation) error {
	clone, err := cloneConversation(conv)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.conversations[conv.ID]; !exists {
		return ErrNotFound
	}
	s.conversations[conv.ID] = clone
	return nil
}

// List returns summary rows for every conversation, ordered by start time
// (oldest first) for stable output.
func (s *MemoryStore) List(ctx context.Context) ([]ListItem, error) {
	s.mu.RLock()
	items := make([]ListItem, 0, len(s.conversations))
	for _, conv := range s.conversations {
		items = append(items, conv.Summary())
	}
	s.mu.RUnlock()

	sortListItems(items)
	return items, nil
}

// sortListItems orders summary rows by start time (oldest first), breaking
// ties by id so listing output is stable across backends.
func sortListItems(items []ListItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].ConversationID < items[j].ConversationID
		}
		return items[i].StartTime.Before(items[j].StartTime)
	})
}

// cloneConversation deep-copies via the JSON codec, which every stored field
// already supports.
func cloneConversation(conv *Conversation) (*Conversation, error) {
	data, err := json.Marshal(conv)
	if err != nil {
		return nil, err
	}
	var clone Conversation
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
