package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// UpdateFunc computes the next state of a session. found is false when the
// session does not exist yet, in which case current is the zero Session.
// Returning an error aborts the update and nothing is saved.
type UpdateFunc func(current Session, found bool) (Session, error)

// Manager serializes updates per session on top of a Store. Updates to
// different sessions run concurrently.
// All methods are safe for concurrent use.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// NewManager creates a Manager backed by store.
//
// Precondition: store must be non-nil.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sessionLock),
	}
}

// Get loads a session without locking it.
//
// Postcondition: Returns an error wrapping ErrInvalidID or ErrNotFound on failure.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	if !ValidID(id) {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return m.store.Load(ctx, id)
}

// Update runs fn under the session's lock and saves its result.
//
// Precondition: id must be a valid session token.
// Postcondition: Returns the saved session, or the first error from loading,
// fn, or saving. On error the stored session is unchanged.
func (m *Manager) Update(ctx context.Context, id string, fn UpdateFunc) (Session, error) {
	if !ValidID(id) {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	unlock := m.lock(id)
	defer unlock()

	current, err := m.store.Load(ctx, id)
	found := true
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Session{}, fmt.Errorf("loading session %s: %w", id, err)
		}
		found = false
		current = Session{}
	}

	next, err := fn(current.Clone(), found)
	if err != nil {
		return Session{}, err
	}
	next.ID = id
	if err := m.store.Save(ctx, next); err != nil {
		return Session{}, fmt.Errorf("saving session %s: %w", id, err)
	}
	return next, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

// lock acquires the per-session mutex and returns its release function.
// Entries are dropped once no caller holds or waits on them.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// lockCount reports the number of live lock entries.
func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
