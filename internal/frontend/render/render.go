// Package render formats action results as ANSI narrative. Every style it
// emits is one the narrative decoder knows.
package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
)

// DefaultWidth is the wrap width used when none is configured.
const DefaultWidth = 80

// Renderer formats views at a fixed line width.
type Renderer struct {
	width int
}

// New creates a Renderer that wraps prose at width columns. A width below 20
// selects DefaultWidth.
func New(width int) *Renderer {
	if width < 20 {
		width = DefaultWidth
	}
	return &Renderer{width: width}
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

func (r *Renderer) wrap(text string) string {
	return wordwrap.String(text, r.width)
}

// Intro formats the world title and objective shown when a game starts.
func (r *Renderer) Intro(w *world.World) string {
	var b strings.Builder
	if w.Title != "" {
		b.WriteString(ansi.Colorize(ansi.Banner, w.Title))
		b.WriteString("\n")
	}
	if w.Objective != "" {
		b.WriteString(ansi.Colorize(ansi.BrightYellow, r.wrap(w.Objective)))
		b.WriteString("\n")
	}
	return b.String()
}

// Room formats the session's current room: name, description, items, people,
// and exits. Item lists reflect the session's changes to the room.
func (r *Renderer) Room(w *world.World, s session.Session) string {
	room, ok := w.Room(s.RoomID)
	if !ok {
		return ansi.Colorf(ansi.Red, "You are nowhere (%s).", s.RoomID) + "\n"
	}

	var b strings.Builder
	name := room.Name
	if name == "" {
		name = room.ID
	}
	b.WriteString(ansi.Colorize(ansi.Title, name))
	b.WriteString(" ")
	b.WriteString(ansi.Colorf(ansi.Blue, "[%s]", room.Section))
	b.WriteString("\n")
	if room.Description != "" {
		b.WriteString(r.wrap(room.Description))
		b.WriteString("\n")
	}

	if items := s.ItemsIn(w, room.ID); len(items) > 0 {
		b.WriteString(ansi.Colorf(ansi.Green, "You see: %s", strings.Join(items, ", ")))
		b.WriteString("\n")
	}
	if len(room.Persons) > 0 {
		b.WriteString(ansi.Colorf(ansi.BrightYellow, "Also here: %s", strings.Join(room.Persons, ", ")))
		b.WriteString("\n")
	}
	if len(room.ExitOrder) > 0 {
		dirs := make([]string, 0, len(room.ExitOrder))
		for _, d := range room.ExitOrder {
			dirs = append(dirs, string(d))
		}
		b.WriteString(ansi.Colorf(ansi.Cyan, "Exits: %s", strings.Join(dirs, ", ")))
	} else {
		b.WriteString(ansi.Colorize(ansi.Cyan, "There are no obvious exits."))
	}
	b.WriteString("\n")
	return b.String()
}

// Item formats an item's description and contents.
func (r *Renderer) Item(w *world.World, id string) string {
	var b strings.Builder
	b.WriteString(ansi.Colorize(ansi.Bold, id))
	b.WriteString("\n")
	b.WriteString(r.wrap(w.ItemDescription(id)))
	b.WriteString("\n")
	if it, ok := w.Items[id]; ok && len(it.Contains) > 0 {
		b.WriteString(ansi.Colorf(ansi.Green, "It contains: %s", strings.Join(it.Contains, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// Inventory formats the carried items in pickup order.
func (r *Renderer) Inventory(w *world.World, s session.Session) string {
	if len(s.Inventory) == 0 {
		return "You are carrying nothing.\n"
	}
	var b strings.Builder
	b.WriteString(ansi.Colorize(ansi.Bold, "You are carrying:"))
	b.WriteString("\n")
	for _, id := range s.Inventory {
		fmt.Fprintf(&b, "  %s - %s\n", ansi.Colorize(ansi.Green, id), w.ItemDescription(id))
	}
	return b.String()
}

// Speech formats a person's answer.
func (r *Renderer) Speech(person, response string) string {
	return r.wrap(ansi.Colorf(ansi.BrightGreen, "%s says: \"%s\"", person, response)) + "\n"
}

// Help lists the registry's verbs by category.
func (r *Renderer) Help(reg *command.Registry) string {
	var b strings.Builder
	b.WriteString(ansi.Colorize(ansi.Title, "Commands"))
	b.WriteString("\n")
	byCat := reg.CommandsByCategory()
	for _, cat := range command.CategoryOrder {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString(ansi.Colorize(ansi.Bold, cat))
		b.WriteString("\n")
		for _, c := range cmds {
			usage := c.Name
			if c.Usage != "" {
				usage += " " + c.Usage
			}
			fmt.Fprintf(&b, "  %s  %s", ansi.Colorize(ansi.Cyan, usage), c.Help)
			if len(c.Aliases) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(c.Aliases, ", "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Message formats a one-line notice. Refusals are shown in red.
func (r *Renderer) Message(text string, ok bool) string {
	if text == "" {
		return ""
	}
	if !ok {
		return ansi.Colorize(ansi.Red, r.wrap(text)) + "\n"
	}
	return r.wrap(text) + "\n"
}

// Prompt formats the input prompt.
func (r *Renderer) Prompt() string {
	return ansi.Colorize(ansi.Inverse, "> ") + " "
}

// Result formats the full narrative for an action: its message followed by
// the view its Kind selects.
//
// Precondition: s is the session after the action.
func (r *Renderer) Result(w *world.World, s session.Session, reg *command.Registry, res action.Result) string {
	var b strings.Builder
	b.WriteString(r.Message(res.Message, res.OK))
	switch res.Kind {
	case action.KindRoom:
		b.WriteString(r.Room(w, s))
	case action.KindItem:
		b.WriteString(r.Item(w, res.Subject))
	case action.KindInventory:
		b.WriteString(r.Inventory(w, s))
	case action.KindSpeech:
		b.WriteString(r.Speech(res.Subject, res.Speech))
	case action.KindHelp:
		b.WriteString(r.Help(reg))
	}
	return b.String()
}
