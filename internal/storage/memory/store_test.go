package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/storage/memory"
)

func sampleSession() session.Session {
	return session.Session{
		ID:        session.NewID(),
		Game:      "town",
		Section:   "Marketplace",
		RoomID:    "Marketplace1",
		Inventory: []string{"coin"},
		History:   []string{},
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := memory.NewStore()
	_, err := s.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	sess := sampleSession()
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SaveRejectsEmptyID(t *testing.T) {
	s := memory.NewStore()
	assert.Error(t, s.Save(context.Background(), session.Session{}))
}

func TestStore_CopiesOnSaveAndLoad(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	sess := sampleSession()
	require.NoError(t, s.Save(ctx, sess))
	sess.Inventory[0] = "changed"

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "coin", got.Inventory[0])

	got.Inventory[0] = "mutated"
	again, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "coin", again.Inventory[0])
}

func TestStore_Delete(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	sess := sampleSession()
	require.NoError(t, s.Save(ctx, sess))
	require.NoError(t, s.Delete(ctx, sess.ID))
	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err := s.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := sampleSession()
			_ = s.Save(ctx, sess)
			_, _ = s.Load(ctx, sess.ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

// Property: the last Save for an ID is what Load returns.
func TestPropertyLastSaveWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := memory.NewStore()
		ctx := context.Background()
		id := session.NewID()
		rooms := rapid.SliceOfN(rapid.SampledFrom([]string{"Marketplace1", "Marketplace2", "TownHall1"}), 1, 10).Draw(t, "rooms")
		for _, room := range rooms {
			if err := s.Save(ctx, session.Session{ID: id, RoomID: room}); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}
		got, err := s.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.RoomID != rooms[len(rooms)-1] {
			t.Fatalf("RoomID = %q, want %q", got.RoomID, rooms[len(rooms)-1])
		}
	})
}
