package gomud

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/importer"
)

// ConvertZone transforms a parsed GomudZone and its supporting data into an
// unvalidated World. Rooms are grouped into sections by area; rooms without an
// area land in a section named after the zone.
//
// Precondition: zone must be non-nil; rooms is the full map of known room
// display names to GomudRoom; roomArea maps room display names to area display
// names (may be nil); startRoom is an optional display-name override for the
// world's start room.
//
// Postcondition: returns a non-nil World and a (possibly empty) slice of
// warning strings for recoverable issues (missing rooms, unknown exit targets,
// unknown start room).
func ConvertZone(
	zone *GomudZone,
	rooms map[string]*GomudRoom,
	roomArea map[string]string,
	startRoom string,
) (*world.World, []string) {
	var warnings []string

	w := world.NewWorld()
	w.Title = strings.TrimSpace(zone.Name)
	w.Objective = strings.TrimSpace(zone.Description)
	zoneSection := importer.NameToID(zone.Name)
	if zoneSection == "" {
		zoneSection = "zone"
	}

	// Only rooms with a definition are addressable as exit targets.
	nameToID := make(map[string]string, len(zone.Rooms))
	for _, raw := range zone.Rooms {
		name := strings.TrimSpace(raw)
		if _, ok := rooms[name]; ok {
			nameToID[name] = importer.NameToID(name)
		}
	}

	for _, raw := range zone.Rooms {
		name := strings.TrimSpace(raw)
		room, ok := rooms[name]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("zone %q: room %q has no definition file; skipping", zone.Name, name))
			continue
		}
		id := nameToID[name]
		if _, dup := w.Room(id); dup || id == "" {
			warnings = append(warnings, fmt.Sprintf("zone %q: room %q maps to duplicate or empty id %q; skipping", zone.Name, name, id))
			continue
		}

		sectionName := zoneSection
		if area, found := roomArea[name]; found && importer.NameToID(area) != "" {
			sectionName = importer.NameToID(area)
		}
		sec, ok := w.Sections[sectionName]
		if !ok {
			sec = &world.Section{Name: sectionName, Rooms: make(map[string]*world.Room)}
			w.Sections[sectionName] = sec
			w.SectionOrder = append(w.SectionOrder, sectionName)
		}

		r := &world.Room{
			ID:          id,
			Section:     sectionName,
			Name:        strings.TrimSpace(room.Name),
			Description: strings.TrimSpace(room.Description),
			Exits:       make(map[world.Direction]string),
		}

		// Map iteration order is random; sort keys for stable output.
		keys := make([]string, 0, len(room.Exits))
		for k := range room.Exits {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			exit := room.Exits[k]
			target := strings.TrimSpace(exit.Target)
			targetID, known := nameToID[target]
			if !known {
				warnings = append(warnings, fmt.Sprintf(
					"room %q: exit target %q has no room definition; dropping exit",
					name, target,
				))
				continue
			}
			keyword := exit.Direction
			if keyword == "" {
				keyword = k
			}
			dir := world.Direction(importer.NameToID(keyword))
			if _, dup := r.Exits[dir]; dup || dir == "" {
				warnings = append(warnings, fmt.Sprintf("room %q: duplicate or empty exit %q; dropping exit", name, keyword))
				continue
			}
			r.Exits[dir] = targetID
			r.ExitOrder = append(r.ExitOrder, dir)
		}

		for _, obj := range room.Objects {
			itemID := importer.NameToID(obj)
			if itemID == "" {
				continue
			}
			if slices.Contains(r.Items, itemID) {
				warnings = append(warnings, fmt.Sprintf("room %q: duplicate object %q; keeping one", name, obj))
				continue
			}
			if _, exists := w.Items[itemID]; !exists {
				w.Items[itemID] = &world.Item{ID: itemID, Description: strings.TrimSpace(obj)}
			}
			r.Items = append(r.Items, itemID)
		}

		sec.Rooms[id] = r
		sec.RoomOrder = append(sec.RoomOrder, id)
	}

	if startRoom != "" {
		if _, ok := w.Room(importer.NameToID(startRoom)); ok {
			w.Start = importer.NameToID(startRoom)
		} else {
			warnings = append(warnings, fmt.Sprintf("zone %q: start room %q not found; using first room", zone.Name, startRoom))
		}
	}
	if w.Start == "" {
		for _, sname := range w.SectionOrder {
			if order := w.Sections[sname].RoomOrder; len(order) > 0 {
				w.Start = order[0]
				break
			}
		}
	}

	return w, warnings
}
