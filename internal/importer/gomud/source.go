package gomud

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cory-johannsen/adventure/internal/importer"
)

var _ importer.Source = (*GomudSource)(nil)

// GomudSource implements importer.Source for the gomud asset layout:
//
//	sourceDir/
//	  zones/   <- one YAML file per zone
//	  areas/   <- one YAML file per area
//	  rooms/   <- one YAML file per room
type GomudSource struct {
	warn io.Writer
}

// NewSource constructs a GomudSource that prints conversion warnings to warn.
// A nil warn sends them to stderr.
func NewSource(warn io.Writer) *GomudSource {
	if warn == nil {
		warn = os.Stderr
	}
	return &GomudSource{warn: warn}
}

// Load reads the gomud asset tree rooted at sourceDir and returns one Document
// per zone file, named by the zone. startRoom overrides each zone's default
// start room (first listed room) when non-empty.
//
// Precondition: sourceDir must contain zones/, areas/, and rooms/ subdirs.
// Postcondition: returns at least one Document or a non-nil error.
func (s *GomudSource) Load(sourceDir, startRoom string) ([]*importer.Document, error) {
	zonesDir := filepath.Join(sourceDir, "zones")
	areasDir := filepath.Join(sourceDir, "areas")
	roomsDir := filepath.Join(sourceDir, "rooms")

	for _, dir := range []string{zonesDir, areasDir, roomsDir} {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("required subdirectory %q not accessible in source: %w", filepath.Base(dir), err)
		}
	}

	allRooms, err := loadRooms(roomsDir)
	if err != nil {
		return nil, err
	}

	roomArea, err := loadRoomAreaMap(areasDir)
	if err != nil {
		return nil, err
	}

	zoneFiles, err := yamlFiles(zonesDir)
	if err != nil {
		return nil, err
	}

	var results []*importer.Document
	for _, path := range zoneFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading zone file %s: %w", path, err)
		}
		zone, err := ParseZone(data)
		if err != nil {
			return nil, fmt.Errorf("parsing zone file %s: %w", path, err)
		}
		w, warnings := ConvertZone(zone, allRooms, roomArea, startRoom)
		for _, msg := range warnings {
			fmt.Fprintf(s.warn, "WARNING: %s\n", msg)
		}
		name := importer.NameToID(zone.Name)
		if name == "" {
			name = importer.NameToID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
		results = append(results, &importer.Document{ShortName: name, World: w})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no zone files found in %s", zonesDir)
	}
	return results, nil
}

func loadRooms(dir string) (map[string]*GomudRoom, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	rooms := make(map[string]*GomudRoom, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading room file %s: %w", path, err)
		}
		room, err := ParseRoom(data)
		if err != nil {
			return nil, fmt.Errorf("parsing room file %s: %w", path, err)
		}
		rooms[strings.TrimSpace(room.Name)] = room
	}
	return rooms, nil
}

func loadRoomAreaMap(dir string) (map[string]string, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	roomArea := make(map[string]string)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading area file %s: %w", path, err)
		}
		area, err := ParseArea(data)
		if err != nil {
			return nil, fmt.Errorf("parsing area file %s: %w", path, err)
		}
		for _, name := range area.Rooms {
			roomArea[strings.TrimSpace(name)] = area.Name
		}
	}
	return roomArea, nil
}

// yamlFiles lists the YAML files in dir, sorted by name.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
