package importer

import "github.com/cory-johannsen/adventure/internal/game/world"

// Document is one world produced by a Source, named by the game short name it
// will be served under.
type Document struct {
	ShortName string
	World     *world.World
}

// Source loads worlds from a format-specific source path.
//
// Precondition: sourcePath must exist and match the layout the format expects.
// startRoom is an optional override for each world's start room; empty string
// means "use format default".
// Postcondition: returns at least one Document, or a non-nil error.
type Source interface {
	Load(sourcePath, startRoom string) ([]*Document, error)
}
