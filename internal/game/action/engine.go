package action

import (
	"maps"
	"slices"
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
)

// handlerFunc executes one verb. It receives a private copy of the session.
type handlerFunc func(w *world.World, s session.Session, cmd *command.Command, p command.ParseResult) (session.Session, Result)

// Engine resolves action lines through a command registry and runs them.
// An Engine holds no per-session state and is safe for concurrent use.
type Engine struct {
	registry *command.Registry
	handlers map[string]handlerFunc
}

// NewEngine creates an Engine over the given registry.
//
// Precondition: registry must be non-nil.
func NewEngine(registry *command.Registry) *Engine {
	e := &Engine{registry: registry}
	e.handlers = map[string]handlerFunc{
		command.HandlerMove:      handleMove,
		command.HandlerBack:      handleBack,
		command.HandlerLook:      handleLook,
		command.HandlerExits:     handleExits,
		command.HandlerExamine:   handleExamine,
		command.HandlerTake:      handleTake,
		command.HandlerDrop:      handleDrop,
		command.HandlerInventory: handleInventory,
		command.HandlerTalk:      handleTalk,
		command.HandlerTrade:     handleTrade,
		command.HandlerHelp:      handleHelp,
	}
	return e
}

// Registry returns the engine's command registry.
func (e *Engine) Registry() *command.Registry {
	return e.registry
}

// Initialize starts a session in the world's start room.
//
// Precondition: w must be a validated World.
// Postcondition: The session has an empty inventory and history, and the
// Result shows the start room.
func (e *Engine) Initialize(w *world.World, id, game string) (session.Session, Result, error) {
	s, err := session.New(id, game, w)
	if err != nil {
		return session.Session{}, Result{}, err
	}
	return s, Result{OK: true, Kind: KindRoom, Handler: command.HandlerLook}, nil
}

// Dispatch runs one action line. A blank line looks at the current room.
// A first word that is not a verb but names an exit of the current room moves
// through that exit.
//
// Precondition: s must be valid in w.
// Postcondition: When Result.OK is false the returned session equals s.
func (e *Engine) Dispatch(w *world.World, s session.Session, line string) (session.Session, Result) {
	p := command.Parse(line)
	if p.Empty() {
		return s, Result{OK: true, Kind: KindRoom, Handler: command.HandlerLook}
	}

	cmd, ok := e.registry.Resolve(p.Command)
	if !ok {
		if room, found := w.Room(s.RoomID); found {
			_, isExit := room.Exit(world.Direction(p.Command))
			move, hasMove := e.registry.Resolve(command.HandlerMove)
			if isExit && hasMove {
				return e.run(w, s, move, command.ParseResult{
					Command: command.HandlerMove,
					Args:    []string{p.Command},
					RawArgs: p.Command,
				})
			}
		}
		return s, fail("", "I don't understand %q. Type help for a list of commands.", p.Command)
	}
	return e.run(w, s, cmd, p)
}

func (e *Engine) run(w *world.World, s session.Session, cmd *command.Command, p command.ParseResult) (session.Session, Result) {
	h, ok := e.handlers[cmd.Handler]
	if !ok {
		return s, fail(cmd.Handler, "%s is not available here.", cmd.Name)
	}
	next, res := h(w, s.Clone(), cmd, p)
	res.Handler = cmd.Handler
	if !res.OK {
		return s, res
	}
	return next, res
}

// find returns the entry of list equal to name ignoring case.
func find(list []string, name string) (string, bool) {
	for _, v := range list {
		if strings.EqualFold(v, name) {
			return v, true
		}
	}
	return "", false
}

// findPerson resolves name to a person defined in w and present in room.
func findPerson(w *world.World, room *world.Room, name string) (string, bool) {
	for _, id := range slices.Sorted(maps.Keys(w.Persons)) {
		if strings.EqualFold(id, name) {
			return id, room.HasPerson(id)
		}
	}
	return "", false
}

// remove returns a new list without the first occurrence of v.
func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))
	removed := false
	for _, x := range list {
		if !removed && x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out
}
