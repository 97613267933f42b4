// Package inmemory provides a map-backed history.Store.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/geegl/studyhelper/providers/history"
)

// Store keeps entries in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]history.Entry
}

var _ history.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string][]history.Entry)}
}

// Save appends a copy of entry to its user's list.
func (s *Store) Save(_ context.Context, entry history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = append(s.entries[entry.UserID], entry)
	return nil
}

// List returns copies of up to limit entries of userID, newest first. Entries
// with equal timestamps keep reverse insertion order.
func (s *Store) List(_ context.Context, userID string, limit int) ([]history.Entry, error) {
	if userID == "" {
		return nil, history.ErrMissingUser
	}
	limit = history.NormalizeLimit(limit)

	s.mu.RLock()
	stored := s.entries[userID]
	out := make([]history.Entry, len(stored))
	for i, entry := range stored {
		out[len(stored)-1-i] = entry
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes the entry with id from userID's list.
func (s *Store) Delete(_ context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return history.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[userID]
	for i, entry := range stored {
		if entry.ID != id {
			continue
		}
		s.entries[userID] = append(stored[:i:i], stored[i+1:]...)
		if len(s.entries[userID]) == 0 {
			delete(s.entries, userID)
		}
		return nil
	}
	return history.ErrNotFound
}

// Len returns the number of stored entries across all users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, stored := range s.entries {
		n += len(stored)
	}
	return n
}
