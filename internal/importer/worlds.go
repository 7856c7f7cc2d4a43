package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cory-johannsen/adventure/internal/game/world"
)

var _ Source = (*WorldSource)(nil)

// WorldSource implements Source for existing world files in either the line
// format or the YAML schema. The source path may name a single file or a
// directory of world files.
type WorldSource struct{}

// NewWorldSource constructs a WorldSource.
func NewWorldSource() *WorldSource { return &WorldSource{} }

// Load reads every world file at sourcePath. A non-empty startRoom replaces
// the start room of each world and must name a room in it.
//
// Postcondition: returns at least one validated Document or a non-nil error.
func (s *WorldSource) Load(sourcePath, startRoom string) ([]*Document, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", sourcePath, err)
	}

	paths := []string{sourcePath}
	if info.IsDir() {
		entries, err := os.ReadDir(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", sourcePath, err)
		}
		paths = paths[:0]
		for _, e := range entries {
			if !e.IsDir() && world.IsWorldFile(e.Name()) {
				paths = append(paths, filepath.Join(sourcePath, e.Name()))
			}
		}
		sort.Strings(paths)
	}

	var docs []*Document
	for _, path := range paths {
		w, err := world.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		if startRoom != "" {
			if _, ok := w.Room(startRoom); !ok {
				return nil, fmt.Errorf("%s: start room %q not found", path, startRoom)
			}
			w.Start = startRoom
		}
		docs = append(docs, &Document{ShortName: world.ShortName(path), World: w})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no world files found in %s", sourcePath)
	}
	return docs, nil
}
