// Package main converts worlds into world files: GoMud asset trees or existing
// world files in, line-format or YAML world files out.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/importer"
	"github.com/cory-johannsen/adventure/internal/importer/gomud"
)

func main() {
	format := flag.String("format", "", "source format: gomud or world")
	sourcePath := flag.String("source", "", "path to source asset directory or world file")
	outputDir := flag.String("output", "", "path to output world directory")
	to := flag.String("to", string(world.FormatText), "output format: text or yaml")
	startRoom := flag.String("start-room", "", "optional start room override (display name for gomud, room ID for world)")
	flag.Parse()

	if *format == "" || *sourcePath == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content -format <fmt> -source <path> -output <dir> [-to text|yaml] [-start-room <name>]")
		os.Exit(1)
	}

	var src importer.Source
	switch *format {
	case "gomud":
		src = gomud.NewSource(os.Stderr)
	case "world":
		src = importer.NewWorldSource()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: gomud, world)\n", *format)
		os.Exit(1)
	}

	outFormat := world.Format(*to)
	if outFormat != world.FormatText && outFormat != world.FormatYAML {
		fmt.Fprintf(os.Stderr, "unknown output format %q (supported: text, yaml)\n", *to)
		os.Exit(1)
	}

	start := time.Now()
	imp := importer.New(src, outFormat, os.Stdout)
	if _, err := imp.Run(*sourcePath, *outputDir, *startRoom); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("import complete in %s\n", time.Since(start).Round(time.Millisecond))
}
