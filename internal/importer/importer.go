// Package importer converts worlds from a Source into world files in the line
// format or the YAML schema.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cory-johannsen/adventure/internal/game/world"
)

// Importer orchestrates world conversion from a Source to an output directory.
type Importer struct {
	source Source
	format world.Format
	out    io.Writer
}

// New constructs an Importer backed by the given Source that writes worlds in
// format. Progress lines are written to out; a nil out discards them.
//
// Precondition: source must be non-nil; format must be world.FormatText or world.FormatYAML.
// Postcondition: returns a non-nil Importer.
func New(source Source, format world.Format, out io.Writer) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{source: source, format: format, out: out}
}

// Encode renders w in format.
//
// Precondition: w must be non-nil.
// Postcondition: returns the encoded bytes or a non-nil error for an unknown format.
func Encode(w *world.World, format world.Format) ([]byte, error) {
	switch format {
	case world.FormatText:
		return []byte(world.MarshalText(w)), nil
	case world.FormatYAML:
		return world.MarshalYAML(w)
	default:
		return nil, fmt.Errorf("unknown world format %q", format)
	}
}

// Extension returns the file extension written for format.
func Extension(format world.Format) string {
	if format == world.FormatYAML {
		return ".yaml"
	}
	return ".txt"
}

// Run loads worlds from sourcePath, validates each encoded world, and writes it
// to outputDir as <short_name><ext>.
//
// Precondition: sourcePath must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: one world file per Document is written to outputDir, or an
// error is returned. Returns the written paths in source order.
func (imp *Importer) Run(sourcePath, outputDir, startRoom string) ([]string, error) {
	overall := time.Now()

	t0 := time.Now()
	docs, err := imp.source.Load(sourcePath, startRoom)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	fmt.Fprintf(imp.out, "load    %d world(s) in %s\n", len(docs), time.Since(t0).Round(time.Millisecond))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	written := make([]string, 0, len(docs))
	for _, doc := range docs {
		t1 := time.Now()

		data, err := Encode(doc.World, imp.format)
		if err != nil {
			return written, fmt.Errorf("encoding world %q: %w", doc.ShortName, err)
		}

		// Validate output is loadable before writing.
		if _, err := world.LoadFromBytes(data, imp.format); err != nil {
			return written, fmt.Errorf("world %q failed validation: %w", doc.ShortName, err)
		}

		outPath := filepath.Join(outputDir, doc.ShortName+Extension(imp.format))
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return written, fmt.Errorf("writing world %q to %s: %w", doc.ShortName, outPath, err)
		}
		written = append(written, outPath)

		fmt.Fprintf(imp.out, "wrote   %s  (%d rooms)  in %s\n",
			outPath, doc.World.RoomCount(), time.Since(t1).Round(time.Millisecond))
	}

	fmt.Fprintf(imp.out, "total   %s\n", time.Since(overall).Round(time.Millisecond))
	return written, nil
}
