package assets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func newTestFS(t *testing.T) *FileSystem {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"models", "shader"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "models", "cube.obj"), []byte("v 0 0 0\n"), 0644); err != nil {
		t.Fatalf("failed to write cube.obj: %v", err)
	}
	return NewFileSystem(root, "models", "shader")
}

func TestFileSystem_Path(t *testing.T) {
	fs := newTestFS(t)

	tests := []struct {
		name     string
		dir      string
		file     string
		expected string
		err      error
	}{
		{"registered dir", "models", "cube.obj", filepath.Join(fs.Root(), "models", "cube.obj"), nil},
		{"nested name", "shader", "mesh/phong.frag", filepath.Join(fs.Root(), "shader", "mesh", "phong.frag"), nil},
		{"unknown dir", "fonts", "a.ttf", "", ErrUnknownDir},
		{"escaping name", "models", "../secret", "", ErrInvalidPath},
		{"absolute name", "models", "/etc/passwd", "", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Path(tt.dir, tt.file)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFileSystem_ReadCaches(t *testing.T) {
	fs := newTestFS(t)

	data, err := fs.Read("models", "cube.obj")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "v 0 0 0\n" {
		t.Errorf("unexpected contents %q", data)
	}

	// The second read is served from the cache even after the file is gone.
	if err := os.Remove(filepath.Join(fs.Root(), "models", "cube.obj")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if _, err := fs.Reader("models")("cube.obj"); err != nil {
		t.Errorf("expected cached read, got %v", err)
	}
	if hits, misses := fs.Cache().Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}

	fs.Close()
	if _, err := fs.Read("models", "cube.obj"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist after cache clear, got %v", err)
	}
}

func TestFileSystem_InitSubDirs(t *testing.T) {
	fs := newTestFS(t)
	if err := fs.InitSubDirs(); err != nil {
		t.Fatalf("expected existing dirs to pass, got %v", err)
	}

	fs.AddDir("audio")
	fs.AddDir("audio")
	if n := len(fs.Dirs()); n != 3 {
		t.Errorf("expected 3 dirs, got %d", n)
	}
	if err := fs.InitSubDirs(); !errors.Is(err, ErrMissingDir) {
		t.Errorf("expected ErrMissingDir, got %v", err)
	}
}

type resource struct {
	name     string
	released *[]string
}

func TestLibrary(t *testing.T) {
	var released []string
	lib := NewLibrary("texture", func(r resource) {
		*r.released = append(*r.released, r.name)
	})

	for _, n := range []string{"floor", "cyborg"} {
		if err := lib.Add(n, resource{n, &released}); err != nil {
			t.Fatalf("Add(%s) failed: %v", n, err)
		}
	}

	if err := lib.Add("floor", resource{"floor2", &released}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	r, err := lib.Get("cyborg")
	if err != nil || r.name != "cyborg" {
		t.Errorf("expected cyborg, got %v, %v", r, err)
	}
	if _, err := lib.Get("donut"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	lib.Replace("floor", resource{"floor-v2", &released})
	if !slices.Equal(released, []string{"floor"}) {
		t.Errorf("expected old floor released, got %v", released)
	}
	if !slices.Equal(lib.Names(), []string{"floor", "cyborg"}) {
		t.Errorf("expected insertion order kept, got %v", lib.Names())
	}

	lib.Close()
	expected := []string{"floor", "cyborg", "floor-v2"}
	if !slices.Equal(released, expected) {
		t.Errorf("expected release order %v, got %v", expected, released)
	}
	if lib.Len() != 0 {
		t.Errorf("expected empty library, got %d items", lib.Len())
	}
}
