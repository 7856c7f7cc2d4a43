package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a world file encoding.
type Format string

const (
	// FormatText is the line-oriented world format.
	FormatText Format = "text"
	// FormatYAML is the YAML world schema.
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as the line format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// LoadFromBytes parses and validates a world in the given format.
//
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromBytes(data []byte, format Format) (*World, error) {
	switch format {
	case FormatText:
		return Parse(string(data))
	case FormatYAML:
		return UnmarshalYAML(data)
	default:
		return nil, fmt.Errorf("unknown world format %q", format)
	}
}

// LoadFromFile reads and validates a single world file.
//
// Precondition: path must point to a world file in text or YAML format.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := LoadFromBytes(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading world from %s: %w", path, err)
	}
	return w, nil
}

// ShortName derives a game's short name from its world file path.
func ShortName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsWorldFile reports whether name has an extension the loader accepts.
func IsWorldFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".yaml", ".yml":
		return true
	}
	return false
}
