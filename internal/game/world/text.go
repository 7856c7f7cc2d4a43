package world

import (
	"fmt"
	"strings"
)

// MarshalText renders w in the line-oriented world format. Items and persons
// are written after the rooms of the last section, sorted by ID. Line breaks inside
// values are folded to spaces because the format is one field per line.
//
// Precondition: w must be non-nil.
// Postcondition: Parse(MarshalText(w)) yields a World equal to w.
func MarshalText(w *World) string {
	var b strings.Builder
	line := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\n", key, fold(value))
	}

	if w.Title != "" {
		line("Title", w.Title)
	}
	if w.Objective != "" {
		line("Objective", w.Objective)
	}
	if w.Start != "" {
		line("Start", w.Start)
	}

	for _, sname := range w.SectionOrder {
		sec := w.Sections[sname]
		fmt.Fprintf(&b, "\n[%s]\n", sname)
		for _, id := range sec.RoomOrder {
			r := sec.Rooms[id]
			line("RoomID", r.ID)
			if r.Name != "" {
				line("Name", r.Name)
			}
			if r.Description != "" {
				line("Description", r.Description)
			}
			if len(r.ExitOrder) > 0 {
				exits := make([]string, 0, len(r.ExitOrder))
				for _, dir := range r.ExitOrder {
					exits = append(exits, string(dir)+":"+r.Exits[dir])
				}
				line("Exits", strings.Join(exits, ", "))
			}
			if len(r.Items) > 0 {
				line("Items", strings.Join(r.Items, ", "))
			}
			if len(r.Persons) > 0 {
				line("Persons", strings.Join(r.Persons, ", "))
			}
		}
	}

	if len(w.Items) > 0 || len(w.Persons) > 0 {
		b.WriteString("\n")
	}
	for _, id := range sortedKeys(w.Items) {
		it := w.Items[id]
		line("Item", it.ID)
		if it.Description != "" {
			line("ItemDescription", it.Description)
		}
		if len(it.Contains) > 0 {
			line("Contains", strings.Join(it.Contains, ", "))
		}
	}
	for _, id := range sortedKeys(w.Persons) {
		p := w.Persons[id]
		line("Person", p.ID)
		if len(p.Keywords) > 0 {
			line("Keywords", joinPairs(p.Keywords))
		}
		if len(p.Trades) > 0 {
			line("Trades", joinPairs(p.Trades))
		}
	}
	return b.String()
}

func joinPairs(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, k+":"+m[k])
	}
	return strings.Join(parts, "; ")
}

func fold(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s))
}
