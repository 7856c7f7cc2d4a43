// Package memory provides an in-process session.Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/session"
)

// Store keeps sessions in a map guarded by a read-write mutex. Sessions are
// deep-copied on the way in and out so callers never share slices with it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]session.Session)}
}

// Load returns a copy of the stored session.
//
// Postcondition: Returns an error wrapping session.ErrNotFound when id is unknown.
func (s *Store) Load(_ context.Context, id string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return session.Session{}, fmt.Errorf("loading session %s: %w", id, session.ErrNotFound)
	}
	return sess.Clone(), nil
}

// Save inserts or replaces the session.
//
// Precondition: sess.ID must be non-empty.
func (s *Store) Save(_ context.Context, sess session.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("saving session: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Delete removes the session if present.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
