package world

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

type yamlWorld struct {
	Title     string        `yaml:"title"`
	Objective string        `yaml:"objective,omitempty"`
	Start     string        `yaml:"start"`
	Sections  []yamlSection `yaml:"sections"`
	Items     []yamlItem    `yaml:"items,omitempty"`
	Persons   []yamlPerson  `yaml:"persons,omitempty"`
}

type yamlSection struct {
	Name  string     `yaml:"name"`
	Rooms []yamlRoom `yaml:"rooms"`
}

type yamlRoom struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Exits       []yamlExit `yaml:"exits,omitempty"`
	Items       []string   `yaml:"items,omitempty"`
	Persons     []string   `yaml:"persons,omitempty"`
}

type yamlExit struct {
	Direction string `yaml:"direction"`
	Target    string `yaml:"target"`
}

type yamlItem struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description,omitempty"`
	Contains    []string `yaml:"contains,omitempty"`
}

type yamlPerson struct {
	ID       string            `yaml:"id"`
	Keywords map[string]string `yaml:"keywords,omitempty"`
	Trades   map[string]string `yaml:"trades,omitempty"`
}

// MarshalYAML encodes a world in the YAML world schema. Sections and rooms keep
// their declaration order; items and persons are sorted by ID.
//
// Precondition: w must be non-nil.
// Postcondition: Returns YAML bytes that UnmarshalYAML decodes to an equal World.
func MarshalYAML(w *World) ([]byte, error) {
	yw := yamlWorld{
		Title:     w.Title,
		Objective: w.Objective,
		Start:     w.Start,
	}
	for _, sname := range w.SectionOrder {
		sec := w.Sections[sname]
		ys := yamlSection{Name: sname}
		for _, id := range sec.RoomOrder {
			r := sec.Rooms[id]
			yr := yamlRoom{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Items:       r.Items,
				Persons:     r.Persons,
			}
			for _, dir := range r.ExitOrder {
				yr.Exits = append(yr.Exits, yamlExit{Direction: string(dir), Target: r.Exits[dir]})
			}
			ys.Rooms = append(ys.Rooms, yr)
		}
		yw.Sections = append(yw.Sections, ys)
	}
	for _, id := range sortedKeys(w.Items) {
		it := w.Items[id]
		yw.Items = append(yw.Items, yamlItem{ID: it.ID, Description: it.Description, Contains: it.Contains})
	}
	for _, id := range sortedKeys(w.Persons) {
		p := w.Persons[id]
		yw.Persons = append(yw.Persons, yamlPerson{ID: p.ID, Keywords: p.Keywords, Trades: p.Trades})
	}

	data, err := yaml.Marshal(yamlWorldFile{World: yw})
	if err != nil {
		return nil, fmt.Errorf("encoding world YAML: %w", err)
	}
	return data, nil
}

// UnmarshalYAML parses and validates a world from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the world schema.
// Postcondition: Returns a validated World or a non-nil error.
func UnmarshalYAML(data []byte) (*World, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}
	w, err := convertYAMLWorld(file.World)
	if err != nil {
		return nil, err
	}
	if w.Start == "" {
		w.Start = w.firstRoom()
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return w, nil
}

// convertYAMLWorld converts the parsed YAML structures into domain types,
// rejecting the duplicates the line scanner would reject.
func convertYAMLWorld(yw yamlWorld) (*World, error) {
	w := NewWorld()
	w.Title = yw.Title
	w.Objective = yw.Objective
	w.Start = yw.Start

	for _, ys := range yw.Sections {
		if _, exists := w.Sections[ys.Name]; exists || ys.Name == "" {
			return nil, fmt.Errorf("invalid or duplicate section %q", ys.Name)
		}
		sec := &Section{Name: ys.Name, Rooms: make(map[string]*Room, len(ys.Rooms))}
		w.Sections[ys.Name] = sec
		w.SectionOrder = append(w.SectionOrder, ys.Name)
		for _, yr := range ys.Rooms {
			if _, exists := w.Room(yr.ID); exists || yr.ID == "" {
				return nil, fmt.Errorf("invalid or duplicate room %q", yr.ID)
			}
			room := &Room{
				ID:          yr.ID,
				Section:     ys.Name,
				Name:        yr.Name,
				Description: yr.Description,
				Exits:       make(map[Direction]string, len(yr.Exits)),
				Items:       yr.Items,
				Persons:     yr.Persons,
			}
			for _, ye := range yr.Exits {
				dir := Direction(strings.ToLower(ye.Direction))
				if _, dup := room.Exits[dir]; dup {
					return nil, fmt.Errorf("room %q: duplicate direction %q", yr.ID, dir)
				}
				room.Exits[dir] = ye.Target
				room.ExitOrder = append(room.ExitOrder, dir)
			}
			sec.Rooms[room.ID] = room
			sec.RoomOrder = append(sec.RoomOrder, room.ID)
		}
	}
	for _, yi := range yw.Items {
		if _, exists := w.Items[yi.ID]; exists || yi.ID == "" {
			return nil, fmt.Errorf("invalid or duplicate item %q", yi.ID)
		}
		w.Items[yi.ID] = &Item{ID: yi.ID, Description: yi.Description, Contains: yi.Contains}
	}
	for _, yp := range yw.Persons {
		if _, exists := w.Persons[yp.ID]; exists || yp.ID == "" {
			return nil, fmt.Errorf("invalid or duplicate person %q", yp.ID)
		}
		p := &Person{ID: yp.ID, Keywords: make(map[string]string, len(yp.Keywords)), Trades: yp.Trades}
		for k, v := range yp.Keywords {
			p.Keywords[strings.ToLower(k)] = v
		}
		if p.Trades == nil {
			p.Trades = make(map[string]string)
		}
		w.Persons[yp.ID] = p
	}
	return w, nil
}
