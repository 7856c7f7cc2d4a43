package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no session has the requested ID.
var ErrNotFound = errors.New("session not found")

// Store persists sessions.
type Store interface {
	// Load returns the session with the given ID, or an error wrapping ErrNotFound.
	Load(ctx context.Context, id string) (Session, error)
	// Save inserts or replaces the session.
	Save(ctx context.Context, s Session) error
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
