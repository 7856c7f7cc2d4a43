// Package world provides the game world model: sections, rooms, items, and persons,
// and the loaders that build it from the line-oriented world format.
package world

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Direction is an exit keyword such as "north" or "stairs".
type Direction string

// Standard compass directions and vertical movements.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
	Up, Down,
}

// IsStandard reports whether d is one of the ten standard directions.
func (d Direction) IsStandard() bool {
	for _, sd := range StandardDirections {
		if d == sd {
			return true
		}
	}
	return false
}

// Room is a location node with exits, items, and persons.
type Room struct {
	// ID uniquely identifies the room across the whole world.
	ID string
	// Section is the name of the section that declared the room.
	Section string
	// Name is the short display name.
	Name string
	// Description is the text shown when the room is entered or looked at.
	Description string
	// Exits maps a direction keyword to the target room ID.
	Exits map[Direction]string
	// ExitOrder records exit directions in declaration order.
	ExitOrder []Direction
	// Items lists the IDs of items initially present, in declaration order.
	Items []string
	// Persons lists the IDs of persons present, in declaration order.
	Persons []string
}

// Exit returns the target room for dir.
//
// Postcondition: Returns (target, true) if the room has an exit in dir, or ("", false).
func (r *Room) Exit(dir Direction) (string, bool) {
	target, ok := r.Exits[dir]
	return target, ok
}

// HasPerson reports whether the person with the given ID is present.
func (r *Room) HasPerson(id string) bool {
	for _, p := range r.Persons {
		if p == id {
			return true
		}
	}
	return false
}

// Item is an object that can sit in a room, be carried, or be nested in another item.
type Item struct {
	ID          string
	Description string
	// Contains lists the IDs of items nested inside this one.
	Contains []string
}

// Person is a character present in rooms who answers keywords and trades items.
type Person struct {
	ID string
	// Keywords maps a keyword the player may say to the person's response key.
	Keywords map[string]string
	// Trades maps an item the player offers to the item the person gives back.
	Trades map[string]string
}

// Section groups rooms into a zone.
type Section struct {
	Name  string
	Rooms map[string]*Room
	// RoomOrder records room IDs in declaration order.
	RoomOrder []string
}

// World is the parsed game world.
type World struct {
	Title     string
	Objective string
	// Start is the ID of the designated starting room.
	Start string
	// Sections maps section name to section.
	Sections map[string]*Section
	// SectionOrder records section names in declaration order.
	SectionOrder []string
	Items        map[string]*Item
	Persons      map[string]*Person
}

// NewWorld returns an empty World with all maps initialized.
func NewWorld() *World {
	return &World{
		Sections: make(map[string]*Section),
		Items:    make(map[string]*Item),
		Persons:  make(map[string]*Person),
	}
}

// Room returns the room with the given ID from any section.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (w *World) Room(id string) (*Room, bool) {
	for _, name := range w.SectionOrder {
		if r, ok := w.Sections[name].Rooms[id]; ok {
			return r, true
		}
	}
	return nil, false
}

// SectionOf returns the name of the section that owns the room.
//
// Postcondition: Returns (name, true) if the room exists, or ("", false).
func (w *World) SectionOf(roomID string) (string, bool) {
	r, ok := w.Room(roomID)
	if !ok {
		return "", false
	}
	return r.Section, true
}

// StartRoom returns the designated starting room.
//
// Postcondition: Returns nil only if the world has no valid start room.
func (w *World) StartRoom() *Room {
	r, _ := w.Room(w.Start)
	return r
}

// firstRoom returns the first room declared in section order, or "".
func (w *World) firstRoom() string {
	for _, name := range w.SectionOrder {
		if sec := w.Sections[name]; len(sec.RoomOrder) > 0 {
			return sec.RoomOrder[0]
		}
	}
	return ""
}

// RoomCount returns the total number of rooms across all sections.
func (w *World) RoomCount() int {
	n := 0
	for _, s := range w.Sections {
		n += len(s.Rooms)
	}
	return n
}

// ItemDescription returns the description of the item, falling back to its ID.
func (w *World) ItemDescription(id string) string {
	if it, ok := w.Items[id]; ok && it.Description != "" {
		return it.Description
	}
	return id
}

// Validate checks that every reference in the world resolves to a defined entity.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (w *World) Validate() error {
	if w.RoomCount() == 0 {
		return fmt.Errorf("world must contain at least one room")
	}
	if w.Start == "" {
		return fmt.Errorf("world has no start room")
	}
	if _, ok := w.Room(w.Start); !ok {
		return fmt.Errorf("start room %q not found", w.Start)
	}
	for _, sname := range w.SectionOrder {
		sec := w.Sections[sname]
		for _, id := range sec.RoomOrder {
			room := sec.Rooms[id]
			for _, dir := range room.ExitOrder {
				target := room.Exits[dir]
				if _, ok := w.Room(target); !ok {
					return fmt.Errorf("section %q: room %q: exit %q targets unknown room %q", sname, id, dir, target)
				}
			}
			for i, item := range room.Items {
				if _, ok := w.Items[item]; !ok {
					return fmt.Errorf("section %q: room %q: unknown item %q", sname, id, item)
				}
				if slices.Contains(room.Items[:i], item) {
					return fmt.Errorf("section %q: room %q: duplicate item %q", sname, id, item)
				}
			}
			for i, person := range room.Persons {
				if _, ok := w.Persons[person]; !ok {
					return fmt.Errorf("section %q: room %q: unknown person %q", sname, id, person)
				}
				if slices.Contains(room.Persons[:i], person) {
					return fmt.Errorf("section %q: room %q: duplicate person %q", sname, id, person)
				}
			}
		}
	}
	for _, id := range sortedKeys(w.Items) {
		for _, inner := range w.Items[id].Contains {
			if _, ok := w.Items[inner]; !ok {
				return fmt.Errorf("item %q contains unknown item %q", id, inner)
			}
		}
	}
	if err := w.checkContainment(); err != nil {
		return err
	}
	for _, id := range sortedKeys(w.Persons) {
		p := w.Persons[id]
		for _, offered := range sortedKeys(p.Trades) {
			if _, ok := w.Items[offered]; !ok {
				return fmt.Errorf("person %q trades for unknown item %q", id, offered)
			}
			if _, ok := w.Items[p.Trades[offered]]; !ok {
				return fmt.Errorf("person %q trades away unknown item %q", id, p.Trades[offered])
			}
		}
	}
	return nil
}

// checkContainment rejects items that directly or indirectly contain themselves.
func (w *World) checkContainment() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(w.Items))
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("item containment cycle: %s", strings.Join(append(path, id), " -> "))
		case done:
			return nil
		}
		state[id] = visiting
		for _, inner := range w.Items[id].Contains {
			if err := visit(inner, append(path, id)); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range sortedKeys(w.Items) {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
