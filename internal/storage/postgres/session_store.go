package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/adventure/internal/game/session"
)

// SessionStore persists sessions as JSONB rows in the sessions table.
type SessionStore struct {
	db *pgxpool.Pool
}

// NewSessionStore creates a SessionStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool and the sessions
// table must exist.
func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

// Load retrieves a session by ID.
//
// Postcondition: Returns the session, or an error wrapping session.ErrNotFound.
func (r *SessionStore) Load(ctx context.Context, id string) (session.Session, error) {
	var state []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM sessions WHERE id = $1`, id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, fmt.Errorf("loading session %s: %w", id, session.ErrNotFound)
		}
		return session.Session{}, fmt.Errorf("loading session %s: %w", id, err)
	}

	var s session.Session
	if err := json.Unmarshal(state, &s); err != nil {
		return session.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	s.ID = id
	return s, nil
}

// Save inserts the session or replaces the stored state.
//
// Precondition: s.ID must be non-empty.
// Postcondition: The row for s.ID holds s and a fresh updated_at.
func (r *SessionStore) Save(ctx context.Context, s session.Session) error {
	if s.ID == "" {
		return fmt.Errorf("saving session: empty id")
	}
	state, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO sessions (id, game, state, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET game = EXCLUDED.game, state = EXCLUDED.state, updated_at = NOW()`,
		s.ID, s.Game, state,
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the session row if present.
func (r *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// CountByGame returns the number of stored sessions per game short name.
func (r *SessionStore) CountByGame(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT game, COUNT(*) FROM sessions GROUP BY game`)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var game string
		var n int
		if err := rows.Scan(&game, &n); err != nil {
			return nil, fmt.Errorf("scanning session count: %w", err)
		}
		counts[game] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	return counts, nil
}
