package world

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed line in the world text.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// parseState holds the scan cursors. Every cursor may be nil.
type parseState struct {
	world   *World
	section *Section
	room    *Room
	item    *Item
	person  *Person
	// seenTitle and seenObjective make the metadata lines first-wins.
	seenTitle     bool
	seenObjective bool
}

// lineRule is one independent clause of the scanner. Every rule whose match
// reports true is applied to the line, in table order.
type lineRule struct {
	name  string
	match func(line string) bool
	apply func(st *parseState, line string) error
}

func prefixRule(prefix string, apply func(st *parseState, value string) error) lineRule {
	return lineRule{
		name:  prefix,
		match: func(line string) bool { return strings.HasPrefix(line, prefix) },
		apply: func(st *parseState, line string) error {
			return apply(st, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		},
	}
}

// lineRules is the ordered rule table. Metadata rules are checked independently
// of section and room state; entity openers run before the field rules so a
// field on the same scan applies to the entity just opened.
var lineRules = []lineRule{
	prefixRule("Title:", func(st *parseState, v string) error {
		if !st.seenTitle {
			st.world.Title = v
			st.seenTitle = true
		}
		return nil
	}),
	prefixRule("Objective:", func(st *parseState, v string) error {
		if !st.seenObjective {
			st.world.Objective = v
			st.seenObjective = true
		}
		return nil
	}),
	prefixRule("Start:", func(st *parseState, v string) error {
		if v == "" {
			return fmt.Errorf("Start: requires a room ID")
		}
		st.world.Start = v
		return nil
	}),
	{
		name:  "[section]",
		match: isSectionMarker,
		apply: func(st *parseState, line string) error {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return fmt.Errorf("empty section name")
			}
			if _, exists := st.world.Sections[name]; exists {
				return fmt.Errorf("duplicate section %q", name)
			}
			sec := &Section{Name: name, Rooms: make(map[string]*Room)}
			st.world.Sections[name] = sec
			st.world.SectionOrder = append(st.world.SectionOrder, name)
			st.section = sec
			st.room = nil
			st.item = nil
			st.person = nil
			return nil
		},
	},
	prefixRule("RoomID:", func(st *parseState, v string) error {
		if st.section == nil {
			return fmt.Errorf("room %q declared outside a section", v)
		}
		if v == "" {
			return fmt.Errorf("RoomID: requires an ID")
		}
		if _, exists := st.world.Room(v); exists {
			return fmt.Errorf("duplicate room %q", v)
		}
		room := &Room{ID: v, Section: st.section.Name, Exits: make(map[Direction]string)}
		st.section.Rooms[v] = room
		st.section.RoomOrder = append(st.section.RoomOrder, v)
		st.room = room
		st.item = nil
		st.person = nil
		return nil
	}),
	prefixRule("Item:", func(st *parseState, v string) error {
		if v == "" {
			return fmt.Errorf("Item: requires an ID")
		}
		if _, exists := st.world.Items[v]; exists {
			return fmt.Errorf("duplicate item %q", v)
		}
		item := &Item{ID: v}
		st.world.Items[v] = item
		st.item = item
		st.person = nil
		return nil
	}),
	prefixRule("Person:", func(st *parseState, v string) error {
		if v == "" {
			return fmt.Errorf("Person: requires an ID")
		}
		if _, exists := st.world.Persons[v]; exists {
			return fmt.Errorf("duplicate person %q", v)
		}
		person := &Person{ID: v, Keywords: make(map[string]string), Trades: make(map[string]string)}
		st.world.Persons[v] = person
		st.person = person
		st.item = nil
		return nil
	}),
	roomField("Name:", func(r *Room, v string) error {
		r.Name = v
		return nil
	}),
	roomField("Description:", func(r *Room, v string) error {
		r.Description = v
		return nil
	}),
	roomField("Exits:", func(r *Room, v string) error {
		pairs, err := parsePairs(v, ",")
		if err != nil {
			return fmt.Errorf("Exits: %w", err)
		}
		for _, p := range pairs {
			dir := Direction(strings.ToLower(p.key))
			if _, dup := r.Exits[dir]; dup {
				return fmt.Errorf("Exits: duplicate direction %q", dir)
			}
			r.Exits[dir] = p.value
			r.ExitOrder = append(r.ExitOrder, dir)
		}
		return nil
	}),
	roomField("Items:", func(r *Room, v string) error {
		r.Items = splitList(v, ",")
		return nil
	}),
	roomField("Persons:", func(r *Room, v string) error {
		r.Persons = splitList(v, ",")
		return nil
	}),
	prefixRule("ItemDescription:", func(st *parseState, v string) error {
		if st.item == nil {
			return fmt.Errorf("ItemDescription: without an open Item")
		}
		st.item.Description = v
		return nil
	}),
	prefixRule("Contains:", func(st *parseState, v string) error {
		if st.item == nil {
			return fmt.Errorf("Contains: without an open Item")
		}
		st.item.Contains = splitList(v, ",")
		return nil
	}),
	prefixRule("Keywords:", func(st *parseState, v string) error {
		if st.person == nil {
			return fmt.Errorf("Keywords: without an open Person")
		}
		pairs, err := parsePairs(v, ";")
		if err != nil {
			return fmt.Errorf("Keywords: %w", err)
		}
		for _, p := range pairs {
			st.person.Keywords[strings.ToLower(p.key)] = p.value
		}
		return nil
	}),
	prefixRule("Trades:", func(st *parseState, v string) error {
		if st.person == nil {
			return fmt.Errorf("Trades: without an open Person")
		}
		pairs, err := parsePairs(v, ";")
		if err != nil {
			return fmt.Errorf("Trades: %w", err)
		}
		for _, p := range pairs {
			st.person.Trades[p.key] = p.value
		}
		return nil
	}),
}

func roomField(prefix string, set func(r *Room, value string) error) lineRule {
	return prefixRule(prefix, func(st *parseState, v string) error {
		if st.room == nil {
			return fmt.Errorf("%s outside a room", prefix)
		}
		return set(st.room, v)
	})
}

func isSectionMarker(line string) bool {
	return len(line) >= 2 && line[0] == '[' && line[len(line)-1] == ']'
}

type pair struct {
	key   string
	value string
}

// parsePairs splits "k:v<sep>k:v" into ordered pairs. Blank segments are skipped;
// a segment without exactly one ':' or with an empty side is an error.
func parsePairs(value, sep string) ([]pair, error) {
	var out []pair
	for _, seg := range strings.Split(value, sep) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts := strings.Split(seg, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed pair %q: want key:value", seg)
		}
		k, v := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if k == "" || v == "" {
			return nil, fmt.Errorf("malformed pair %q: empty key or value", seg)
		}
		out = append(out, pair{key: k, value: v})
	}
	return out, nil
}

// splitList splits a delimited ID list, trimming whitespace and dropping blanks.
func splitList(value, sep string) []string {
	var out []string
	for _, s := range strings.Split(value, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Parse converts world text into a validated World. It performs no I/O.
// Lines matching no rule are ignored.
//
// Postcondition: Returns a World whose every reference resolves, or a non-nil
// error. Scan errors are *ParseError values.
func Parse(text string) (*World, error) {
	st := &parseState{world: NewWorld()}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, rule := range lineRules {
			if !rule.match(line) {
				continue
			}
			if err := rule.apply(st, line); err != nil {
				return nil, &ParseError{Line: i + 1, Msg: err.Error()}
			}
		}
	}

	w := st.world
	if w.Start == "" {
		w.Start = w.firstRoom()
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return w, nil
}
