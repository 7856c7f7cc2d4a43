package action

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
)

// shortDirections expands abbreviations accepted after "move".
var shortDirections = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"ne": "northeast", "nw": "northwest", "se": "southeast", "sw": "southwest",
	"u": "up", "d": "down",
}

func currentRoom(w *world.World, s session.Session) *world.Room {
	r, _ := w.Room(s.RoomID)
	return r
}

// enter moves s into target, recording the room left in the history.
func enter(w *world.World, s session.Session, target string) session.Session {
	s.History = append(s.History, s.RoomID)
	s.RoomID = target
	if section, ok := w.SectionOf(target); ok {
		s.Section = section
	}
	return s
}

// handleMove moves through an exit of the current room. The direction is the
// verb itself for compass verbs, otherwise the first argument.
func handleMove(w *world.World, s session.Session, cmd *command.Command, p command.ParseResult) (session.Session, Result) {
	dir := cmd.Name
	if !command.IsMovementCommand(dir) {
		dir = p.Arg(0)
		if full, ok := shortDirections[dir]; ok {
			dir = full
		}
	}
	if dir == "" {
		return s, fail("", "Move where?")
	}
	target, ok := currentRoom(w, s).Exit(world.Direction(dir))
	if !ok {
		return s, fail("", "You can't go %s from here.", dir)
	}
	s = enter(w, s, target)
	return s, Result{OK: true, Kind: KindRoom, Message: fmt.Sprintf("You go %s.", dir)}
}

// handleBack returns to the most recent room in the history. The history
// stays append-only, so the room being left is recorded too.
func handleBack(w *world.World, s session.Session, _ *command.Command, _ command.ParseResult) (session.Session, Result) {
	if len(s.History) == 0 {
		return s, fail("", "There is nowhere to go back to.")
	}
	prev := s.History[len(s.History)-1]
	if _, ok := w.Room(prev); !ok {
		return s, fail("", "The way back is gone.")
	}
	s = enter(w, s, prev)
	return s, Result{OK: true, Kind: KindRoom, Message: "You retrace your steps."}
}

func handleLook(_ *world.World, s session.Session, _ *command.Command, _ command.ParseResult) (session.Session, Result) {
	return s, Result{OK: true, Kind: KindRoom}
}

func handleExits(w *world.World, s session.Session, _ *command.Command, _ command.ParseResult) (session.Session, Result) {
	room := currentRoom(w, s)
	if len(room.ExitOrder) == 0 {
		return s, Result{OK: true, Kind: KindMessage, Message: "There are no exits."}
	}
	dirs := make([]string, 0, len(room.ExitOrder))
	for _, d := range room.ExitOrder {
		dirs = append(dirs, string(d))
	}
	return s, Result{OK: true, Kind: KindMessage, Message: "Exits: " + strings.Join(dirs, ", ") + "."}
}

// handleExamine describes an item in the room or in the inventory.
func handleExamine(w *world.World, s session.Session, _ *command.Command, p command.ParseResult) (session.Session, Result) {
	name := p.RawArgs
	if name == "" {
		return s, fail("", "Examine what?")
	}
	item, ok := find(s.ItemsIn(w, s.RoomID), name)
	if !ok {
		item, ok = find(s.Inventory, name)
	}
	if !ok {
		return s, fail("", "You don't see %s here.", name)
	}
	return s, Result{OK: true, Kind: KindItem, Subject: item}
}

// handleTake moves an item from the current room into the inventory. An item
// already carried is refused so the room copy is not lost.
func handleTake(w *world.World, s session.Session, _ *command.Command, p command.ParseResult) (session.Session, Result) {
	name := p.RawArgs
	if strings.HasPrefix(strings.ToLower(name), "up ") {
		name = strings.TrimSpace(name[3:])
	}
	if name == "" {
		return s, fail("", "Take what?")
	}
	items := s.ItemsIn(w, s.RoomID)
	item, ok := find(items, name)
	if !ok {
		return s, fail("", "The %s is not here.", name)
	}
	if s.Carrying(item) {
		return s, fail("", "You already have the %s.", item)
	}
	s = s.WithRoomItems(s.RoomID, remove(items, item))
	s.Inventory = append(s.Inventory, item)
	return s, Result{OK: true, Kind: KindMessage, Message: fmt.Sprintf("You take the %s.", item)}
}

func handleDrop(w *world.World, s session.Session, _ *command.Command, p command.ParseResult) (session.Session, Result) {
	name := p.RawArgs
	if name == "" {
		return s, fail("", "Drop what?")
	}
	item, ok := find(s.Inventory, name)
	if !ok {
		return s, fail("", "You are not carrying %s.", name)
	}
	s.Inventory = remove(s.Inventory, item)
	items := slices.Clone(s.ItemsIn(w, s.RoomID))
	s = s.WithRoomItems(s.RoomID, append(items, item))
	return s, Result{OK: true, Kind: KindMessage, Message: fmt.Sprintf("You drop the %s.", item)}
}

func handleInventory(_ *world.World, s session.Session, _ *command.Command, _ command.ParseResult) (session.Session, Result) {
	return s, Result{OK: true, Kind: KindInventory}
}

// handleTalk answers "talk <person> [keyword]". Without a keyword the person
// lists the keywords they respond to.
func handleTalk(w *world.World, s session.Session, _ *command.Command, p command.ParseResult) (session.Session, Result) {
	args := p.Args
	if len(args) > 0 && (strings.EqualFold(args[0], "to") || strings.EqualFold(args[0], "with")) {
		args = args[1:]
	}
	if len(args) == 0 {
		return s, fail("", "Talk to whom?")
	}
	personID, ok := findPerson(w, currentRoom(w, s), args[0])
	if !ok {
		return s, fail("", "%s is not here.", args[0])
	}
	person := w.Persons[personID]

	keyword := strings.ToLower(strings.Join(args[1:], " "))
	keyword = strings.TrimPrefix(keyword, "about ")
	if keyword == "" {
		keys := make([]string, 0, len(person.Keywords))
		for k := range person.Keywords {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		if len(keys) == 0 {
			return s, Result{OK: true, Kind: KindMessage, Message: fmt.Sprintf("%s has nothing to say.", personID)}
		}
		return s, Result{OK: true, Kind: KindMessage,
			Message: fmt.Sprintf("%s listens. You could ask about: %s.", personID, strings.Join(keys, ", "))}
	}
	response, ok := person.Keywords[keyword]
	if !ok {
		return s, fail("", "%s has nothing to say about %s.", personID, keyword)
	}
	return s, Result{OK: true, Kind: KindSpeech, Subject: personID, Speech: response}
}

// handleTrade answers "trade <item> [to|with] <person>". The offered item
// leaves the inventory and the received item joins it.
func handleTrade(w *world.World, s session.Session, _ *command.Command, p command.ParseResult) (session.Session, Result) {
	args := slices.DeleteFunc(slices.Clone(p.Args), func(a string) bool {
		a = strings.ToLower(a)
		return a == "to" || a == "with"
	})
	if len(args) < 2 {
		return s, fail("", "Trade what with whom?")
	}
	offered, ok := find(s.Inventory, args[0])
	if !ok {
		return s, fail("", "You are not carrying %s.", args[0])
	}
	personID, ok := findPerson(w, currentRoom(w, s), args[1])
	if !ok {
		return s, fail("", "%s is not here.", args[1])
	}
	received, ok := w.Persons[personID].Trades[offered]
	if !ok {
		return s, fail("", "%s does not want the %s.", personID, offered)
	}
	s.Inventory = remove(s.Inventory, offered)
	if !s.Carrying(received) {
		s.Inventory = append(s.Inventory, received)
	}
	return s, Result{OK: true, Kind: KindMessage,
		Message: fmt.Sprintf("You give the %s to %s and receive the %s.", offered, personID, received)}
}

func handleHelp(_ *world.World, s session.Session, _ *command.Command, _ command.ParseResult) (session.Session, Result) {
	return s, Result{OK: true, Kind: KindHelp}
}
