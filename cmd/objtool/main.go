// objtool is a CLI utility for inspecting Wavefront OBJ models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "check":
		cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [options]

Commands:
  info [-quads] <file.obj>   Show face types, vertex counts and bounds
  check <dir>                Parse every .obj under dir and report failures

Examples:
  objtool info Resources/models/cyborg.obj
  objtool info -quads Resources/models/cube.obj
  objtool check Resources/models`)
}

func cmdInfo(args []string) {
	fset := flag.NewFlagSet("info", flag.ExitOnError)
	quads := fset.Bool("quads", false, "Expect four-corner faces")
	fset.Parse(args)

	if fset.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info [-quads] <file.obj>")
		os.Exit(1)
	}
	path := fset.Arg(0)

	mode := formats.Triangles
	if *quads {
		mode = formats.Quads
	}

	obj, err := formats.ParseOBJFile(path, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	built, err := model.BuildMesh(obj, model.BuildOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model:     %s\n", path)
	fmt.Printf("Mode:      %s\n", mode)
	fmt.Printf("Positions: %d\n", len(obj.Positions))
	fmt.Printf("Normals:   %d\n", len(obj.Normals))
	fmt.Printf("TexCoords: %d\n", len(obj.TexCoords))
	fmt.Printf("Faces:     %d\n", len(obj.Faces))
	fmt.Printf("Skipped:   %d\n", obj.Skipped)
	fmt.Println()
	fmt.Printf("Vertices:  %d\n", len(built.Vertices))
	fmt.Printf("Triangles: %d\n", built.TriangleCount())
	fmt.Printf("Bounds:    %v .. %v\n", built.Bounds.Min, built.Bounds.Max)
	fmt.Println()
	fmt.Println("Faces by type:")

	type typeStat struct {
		name  string
		count int
	}
	var stats []typeStat
	for t, count := range obj.CountByType() {
		stats = append(stats, typeStat{t.String(), count})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].count > stats[j].count
	})
	for _, s := range stats {
		fmt.Printf("  %-10s %d\n", s.name, s.count)
	}
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool check <dir>")
		os.Exit(1)
	}

	var checked, failed int
	err := filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".obj") {
			return nil
		}

		checked++
		mode, err := detectMode(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", path, err)
			return nil
		}
		fmt.Printf("ok    %s (%s)\n", path, mode)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d checked, %d failed\n", checked, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// detectMode parses path as triangles, then as quads, and returns the mode that built.
func detectMode(path string) (formats.FaceMode, error) {
	var firstErr error
	for _, mode := range []formats.FaceMode{formats.Triangles, formats.Quads} {
		obj, err := formats.ParseOBJFile(path, mode)
		if err == nil {
			_, err = model.BuildMesh(obj, model.BuildOptions{})
		}
		if err == nil {
			return mode, nil
		}
		if !errors.Is(err, formats.ErrFaceArity) {
			return 0, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, firstErr
}
