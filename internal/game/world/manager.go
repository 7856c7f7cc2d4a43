package world

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Game is one playable world in a Catalog.
type Game struct {
	// ShortName identifies the game on the wire.
	ShortName string
	// DisplayName is shown in game pickers; it is the world title when present.
	DisplayName string
	World       *World
	// Text is the world in the line format, as served to clients.
	Text string
}

// Catalog provides thread-safe access to the loaded games, keyed by short name.
type Catalog struct {
	mu    sync.RWMutex
	games map[string]*Game
	order []string
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{games: make(map[string]*Game)}
}

// Add registers a world under shortName. text is the line-format source to
// serve; when empty it is generated with MarshalText.
//
// Precondition: shortName must be non-empty; w must be validated.
// Postcondition: Returns an error on a duplicate short name.
func (c *Catalog) Add(shortName string, w *World, text string) error {
	if shortName == "" {
		return fmt.Errorf("game short name must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.games[shortName]; exists {
		return fmt.Errorf("duplicate game %q", shortName)
	}
	if text == "" {
		text = MarshalText(w)
	}
	display := w.Title
	if display == "" {
		display = shortName
	}
	c.games[shortName] = &Game{ShortName: shortName, DisplayName: display, World: w, Text: text}
	c.order = append(c.order, shortName)
	sort.Strings(c.order)
	return nil
}

// Get returns the game with the given short name.
//
// Postcondition: Returns (game, true) if found, or (nil, false) otherwise.
func (c *Catalog) Get(shortName string) (*Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.games[shortName]
	return g, ok
}

// Games returns all games sorted by short name.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (c *Catalog) Games() []*Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Game, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.games[name])
	}
	return out
}

// Len returns the number of loaded games.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}

// LoadCatalog loads every world file (.txt, .yaml, .yml) in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog with at least one game or a non-nil error.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	c := NewCatalog()
	for _, entry := range entries {
		if entry.IsDir() || !IsWorldFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading world file %s: %w", path, err)
		}
		format := FormatForPath(path)
		w, err := LoadFromBytes(data, format)
		if err != nil {
			return nil, fmt.Errorf("loading world from %s: %w", entry.Name(), err)
		}
		text := ""
		if format == FormatText {
			text = string(data)
		}
		if err := c.Add(ShortName(path), w, text); err != nil {
			return nil, err
		}
	}

	if c.Len() == 0 {
		return nil, fmt.Errorf("no world files found in %s", dir)
	}
	return c, nil
}
