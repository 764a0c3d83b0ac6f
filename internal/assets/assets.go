// Package assets resolves resource files on disk and keeps named resources.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/logger"
)

// FileSystem errors.
var (
	ErrUnknownDir  = errors.New("unknown resource directory")
	ErrMissingDir  = errors.New("resource directory missing")
	ErrInvalidPath = errors.New("resource name escapes its directory")
)

// FileSystem resolves resource files as root/dir/name and caches their contents.
type FileSystem struct {
	root  string
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewFileSystem creates a file system rooted at root with the given sub directories.
func NewFileSystem(root string, dirs ...string) *FileSystem {
	fs := &FileSystem{
		root:  root,
		cache: NewCache(),
	}
	for _, d := range dirs {
		fs.AddDir(d)
	}
	return fs
}

// Root returns the root directory.
func (fs *FileSystem) Root() string { return fs.root }

// AddDir registers a sub directory of the root.
func (fs *FileSystem) AddDir(dir string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !slices.Contains(fs.dirs, dir) {
		fs.dirs = append(fs.dirs, dir)
	}
}

// Dirs returns the registered sub directories.
func (fs *FileSystem) Dirs() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return slices.Clone(fs.dirs)
}

// InitSubDirs checks that every registered sub directory exists.
func (fs *FileSystem) InitSubDirs() error {
	var errs []error
	for _, d := range fs.Dirs() {
		p := filepath.Join(fs.root, d)
		info, err := os.Stat(p)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrMissingDir, p, err))
		case !info.IsDir():
			errs = append(errs, fmt.Errorf("%w: %s is not a directory", ErrMissingDir, p))
		}
	}
	if len(errs) == 0 {
		logger.Debug("resource directories ready", zap.String("root", fs.root), zap.Strings("dirs", fs.Dirs()))
	}
	return errors.Join(errs...)
}

// Path returns the path of name inside the registered sub directory dir.
func (fs *FileSystem) Path(dir, name string) (string, error) {
	fs.mu.RLock()
	known := slices.Contains(fs.dirs, dir)
	fs.mu.RUnlock()

	if !known {
		return "", fmt.Errorf("%w: %q", ErrUnknownDir, dir)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(fs.root, dir, name), nil
}

// Read returns the contents of name in dir, from the cache when possible.
func (fs *FileSystem) Read(dir, name string) ([]byte, error) {
	path, err := fs.Path(dir, name)
	if err != nil {
		return nil, err
	}

	if data, ok := fs.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fs.cache.Set(path, data)
	return data, nil
}

// Reader returns a function reading names from dir.
func (fs *FileSystem) Reader(dir string) func(name string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		return fs.Read(dir, name)
	}
}

// Cache returns the file cache.
func (fs *FileSystem) Cache() *Cache { return fs.cache }

// Close drops cached file contents.
func (fs *FileSystem) Close() {
	hits, misses := fs.cache.Stats()
	logger.Debug("file system closed", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))
	fs.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
