// Package store holds the in-memory chat message state shared by the
// submitter and the user interface.
package store

import (
	"sync"

	"github.com/samber/lo"

	"github.com/diogo/chatbot/internal/models"
)

// Snapshot is a point-in-time copy of the store handed to listeners
type Snapshot struct {
	Messages          []models.Message
	IsMessageUpdating bool
}

// Listener is called after every state change
type Listener func(Snapshot)

// MessageStore is an ordered list of messages plus the updating flag.
// Insertion order is display order.
type MessageStore struct {
	mu         sync.RWMutex
	messages   []models.Message
	isUpdating bool

	listenersMu sync.Mutex
	listeners   map[int]Listener
	order       []int
	nextID      int
}

// NewMessageStore creates a store seeded with the given messages
func NewMessageStore(initial ...models.Message) *MessageStore {
	messages := make([]models.Message, len(initial))
	copy(messages, initial)

	return &MessageStore{
		messages:  messages,
		listeners: make(map[int]Listener),
	}
}

// AddMessage appends msg to the end of the sequence
func (s *MessageStore) AddMessage(msg models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notify()
}

// RemoveMessage drops the message with the given id. Absent ids are a no-op.
func (s *MessageStore) RemoveMessage(id string) {
	s.mu.Lock()
	kept := lo.Filter(s.messages, func(m models.Message, _ int) bool {
		return m.ID != id
	})
	changed := len(kept) != len(s.messages)
	if changed {
		s.messages = kept
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// UpdateMessage replaces the text of the message with the given id by
// fn(oldText). Other fields and other messages are untouched. Absent ids
// are a no-op.
func (s *MessageStore) UpdateMessage(id string, fn func(prev string) string) {
	s.mu.Lock()
	_, index, found := lo.FindIndexOf(s.messages, func(m models.Message) bool {
		return m.ID == id
	})
	if found {
		s.messages[index].Text = fn(s.messages[index].Text)
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
}

// SetIsMessageUpdating sets the shared updating flag. Last write wins.
func (s *MessageStore) SetIsMessageUpdating(updating bool) {
	s.mu.Lock()
	s.isUpdating = updating
	s.mu.Unlock()

	s.notify()
}

// IsMessageUpdating reports whether an assistant reply is streaming in
func (s *MessageStore) IsMessageUpdating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isUpdating
}

// Messages returns a copy of the message sequence
func (s *MessageStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// Message returns the message with the given id
func (s *MessageStore) Message(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.messages, func(m models.Message) bool {
		return m.ID == id
	})
}

// Len returns the number of messages
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Snapshot returns a copy of the current state
func (s *MessageStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.Message, len(s.messages))
	copy(messages, s.messages)
	return Snapshot{Messages: messages, IsMessageUpdating: s.isUpdating}
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners run synchronously on the mutating goroutine, in subscription
// order, after the change has been applied.
func (s *MessageStore) Subscribe(listener Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			delete(s.listeners, id)
			s.order = lo.Without(s.order, id)
		})
	}
}

// notify must be called without s.mu held so listeners can read the store
func (s *MessageStore) notify() {
	s.listenersMu.Lock()
	listeners := lo.FilterMap(s.order, func(id int, _ int) (Listener, bool) {
		l, ok := s.listeners[id]
		return l, ok
	})
	s.listenersMu.Unlock()

	if len(listeners) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, l := range listeners {
		l(snap)
	}
}
