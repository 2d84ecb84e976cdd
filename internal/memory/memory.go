// Package memory holds the per-user conversation history that seeds the
// completion prompt. It lives only for the process lifetime; persistence of
// messages is the storage layer's job.
package memory

import (
	"sync"
	"time"
)

// Roles recorded in the history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxEntries is the number of turns retained per user. Older entries are
// evicted first.
const MaxEntries = 10

// Entry is a single recorded turn.
type Entry struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Store keeps a bounded rolling history per user id. Safe for concurrent
// use.
type Store struct {
	mu      sync.Mutex
	history map[uint][]Entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{history: make(map[uint][]Entry)}
}

// Append records one turn for the user and truncates the history to the
// MaxEntries most recent entries.
func (s *Store) Append(userID uint, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.history[userID], Entry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	s.history[userID] = entries
}

// Get returns a copy of the retained history, oldest first. A user without
// history gets an empty slice.
func (s *Store) Get(userID uint) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, len(s.history[userID]))
	copy(entries, s.history[userID])
	return entries
}

// Clear drops the user's history entirely. It reports whether anything was
// removed; clearing an absent user is a no-op.
func (s *Store) Clear(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.history[userID]; !ok {
		return false
	}
	delete(s.history, userID)
	return true
}
