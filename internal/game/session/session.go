// Package session provides the per-player game state and the concurrent
// manager that serializes actions on each session.
package session

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cory-johannsen/adventure/internal/game/world"
)

// Session is one player's view of a game world. It is a value: operations
// that change it return a modified copy.
type Session struct {
	// ID is the 32-character alphanumeric session token.
	ID string `json:"id"`
	// Game is the short name of the world being played.
	Game string `json:"game"`
	// Section is the section owning RoomID.
	Section string `json:"section"`
	// RoomID is the current room; it always resolves in the session's world.
	RoomID string `json:"roomId"`
	// Inventory lists carried item IDs in pickup order, without duplicates.
	Inventory []string `json:"inventory"`
	// History lists every room left, oldest first. It is append-only.
	History []string `json:"history"`
	// RoomItems overrides the world's item list for rooms whose contents changed.
	RoomItems map[string][]string `json:"roomItems,omitempty"`
}

// New returns a session placed in the world's start room with an empty
// inventory and history.
//
// Precondition: w must be a validated World.
// Postcondition: Returns a Session whose RoomID is w.Start, or an error.
func New(id, game string, w *world.World) (Session, error) {
	start := w.StartRoom()
	if start == nil {
		return Session{}, fmt.Errorf("world %q has no start room", game)
	}
	return Session{
		ID:        id,
		Game:      game,
		Section:   start.Section,
		RoomID:    start.ID,
		Inventory: []string{},
		History:   []string{},
	}, nil
}

// ItemsIn returns the items currently in a room: the session's override when
// one exists, otherwise the world's list. The result must not be modified.
func (s Session) ItemsIn(w *world.World, roomID string) []string {
	if items, ok := s.RoomItems[roomID]; ok {
		return items
	}
	if r, ok := w.Room(roomID); ok {
		return r.Items
	}
	return nil
}

// Carrying reports whether item is in the inventory.
func (s Session) Carrying(item string) bool {
	return slices.Contains(s.Inventory, item)
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	c := s
	c.Inventory = slices.Clone(s.Inventory)
	c.History = slices.Clone(s.History)
	if s.RoomItems != nil {
		c.RoomItems = make(map[string][]string, len(s.RoomItems))
		for k, v := range s.RoomItems {
			c.RoomItems[k] = slices.Clone(v)
		}
	}
	return c
}

// WithRoomItems returns a copy of s with the item list of roomID replaced.
func (s Session) WithRoomItems(roomID string, items []string) Session {
	c := s.Clone()
	if c.RoomItems == nil {
		c.RoomItems = make(map[string][]string)
	}
	if items == nil {
		items = []string{}
	}
	c.RoomItems[roomID] = items
	return c
}

// Validate checks that the session's position, inventory, and room item
// overlay resolve in w.
//
// Postcondition: Returns nil if the session can be played in w.
func (s Session) Validate(w *world.World) error {
	if !ValidID(s.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, s.ID)
	}
	room, ok := w.Room(s.RoomID)
	if !ok {
		return fmt.Errorf("session %s: current room %q not in world", s.ID, s.RoomID)
	}
	if room.Section != s.Section {
		return fmt.Errorf("session %s: section %q does not own room %q", s.ID, s.Section, s.RoomID)
	}
	for _, item := range s.Inventory {
		if _, ok := w.Items[item]; !ok {
			return fmt.Errorf("session %s: unknown inventory item %q", s.ID, item)
		}
	}
	for _, roomID := range slices.Sorted(maps.Keys(s.RoomItems)) {
		if _, ok := w.Room(roomID); !ok {
			return fmt.Errorf("session %s: item overlay for unknown room %q", s.ID, roomID)
		}
		for _, item := range s.RoomItems[roomID] {
			if _, ok := w.Items[item]; !ok {
				return fmt.Errorf("session %s: room %q holds unknown item %q", s.ID, roomID, item)
			}
		}
	}
	return nil
}
