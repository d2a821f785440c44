package meshing

import (
	"sync"

	"github.com/XavilPergis/Rustel/internal/world"
)

// Sink receives finished meshes from a Scheduler.
type Sink interface {
	// Publish stores m and reports whether it differs from what was stored.
	Publish(m *Meshes) bool
	// Remove forgets the mesh of an unloaded chunk.
	Remove(pos world.ChunkPos)
}

type cacheEntry struct {
	meshes   *Meshes
	checksum uint64
}

// MeshCache keeps the latest mesh per chunk. Republishing identical geometry
// is detected by checksum so callers can skip re-uploading it.
type MeshCache struct {
	mu      sync.RWMutex
	entries map[world.ChunkPos]cacheEntry
}

// NewMeshCache creates an empty cache.
func NewMeshCache() *MeshCache {
	return &MeshCache{entries: make(map[world.ChunkPos]cacheEntry)}
}

func (c *MeshCache) Publish(m *Meshes) bool {
	sum := m.Checksum()
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[m.Pos]; ok && old.checksum == sum {
		return false
	}
	c.entries[m.Pos] = cacheEntry{meshes: m, checksum: sum}
	return true
}

// Get returns the cached mesh for pos.
func (c *MeshCache) Get(pos world.ChunkPos) (*Meshes, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[pos]
	return e.meshes, ok
}

func (c *MeshCache) Remove(pos world.ChunkPos) {
	c.mu.Lock()
	delete(c.entries, pos)
	c.mu.Unlock()
}

// Len returns the number of cached chunks.
func (c *MeshCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Range calls fn for every cached mesh until fn returns false.
func (c *MeshCache) Range(fn func(m *Meshes) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if !fn(e.meshes) {
			return
		}
	}
}
