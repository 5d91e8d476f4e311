// Package assets resolves asset paths to bytes across layered sources and
// caches the results.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/logger"
)

// ErrNotFound is returned when no source holds a path.
var ErrNotFound = errors.New("asset not found")

// Source provides asset bytes by path.
type Source interface {
	Name() string
	Read(path string) ([]byte, error)
}

// Manager searches sources and caches what it finds.
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a new asset manager with the built-in source mounted.
func NewManager() *Manager {
	m := &Manager{
		cache: NewCache(),
	}
	m.AddSource(Builtin{})
	return m
}

// AddSource mounts a source. Sources are searched in reverse order
// (last added = highest priority).
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()
}

// AddDir mounts a directory on disk.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("mounting %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mounting %s: not a directory", dir)
	}
	m.AddSource(Dir{root: dir, fsys: os.DirFS(dir)})
	return nil
}

// Load returns the bytes for path. Absolute paths and paths that exist
// relative to the working directory are read directly; anything else is
// looked up in the mounted sources.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	if data, err := os.ReadFile(path); err == nil {
		m.cache.Set(path, data)
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := m.sources[i].Read(path)
		if err == nil {
			logger.Debug("asset loaded",
				zap.String("path", path),
				zap.String("source", m.sources[i].Name()),
				zap.Int("bytes", len(data)))
			m.cache.Set(path, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Close drops the sources and the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = nil
	m.cache.Clear()
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Dir is a directory source.
type Dir struct {
	root string
	fsys fs.FS
}

// Name returns the directory path.
func (d Dir) Name() string { return d.root }

// Read reads a slash-separated path below the directory.
func (d Dir) Read(path string) ([]byte, error) {
	return fs.ReadFile(d.fsys, filepath.ToSlash(path))
}

// Cache is a simple in-memory cache for loaded assets.
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
