package world

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrChunkMissing is returned when the requested chunk is not loaded.
	ErrChunkMissing = errors.New("world: chunk not loaded")
	// ErrNeighborMissing is returned when a face neighbour of the requested
	// chunk is not loaded yet. It is transient; callers retry later.
	ErrNeighborMissing = errors.New("world: neighbor chunk not loaded")
)

type storedChunk struct {
	chunk   *Chunk
	version uint64
}

// ChunkStore manages the storage and retrieval of chunks and tracks which
// chunks need to be re-meshed.
type ChunkStore struct {
	mu       sync.RWMutex
	chunks   map[ChunkPos]*storedChunk
	modCount uint64 // Increases on any chunk add/remove

	dirty      map[ChunkPos]struct{}
	dirtyQueue []ChunkPos
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkPos]*storedChunk),
		dirty:  make(map[ChunkPos]struct{}),
	}
}

// AddChunk installs a chunk, replacing any chunk already at pos. The chunk and
// its loaded face neighbours are marked dirty since their seams changed.
func (cs *ChunkStore) AddChunk(pos ChunkPos, c *Chunk) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	version := uint64(1)
	if old, ok := cs.chunks[pos]; ok {
		version = old.version + 1
	}
	cs.chunks[pos] = &storedChunk{chunk: c, version: version}
	cs.modCount++
	cs.markDirtyLocked(pos)
	for _, s := range AllSides {
		if nb, ok := cs.chunks[pos.Offset(s)]; ok {
			nb.version++
			cs.markDirtyLocked(pos.Offset(s))
		}
	}
}

// RemoveChunk unloads a chunk. It reports whether a chunk was removed.
func (cs *ChunkStore) RemoveChunk(pos ChunkPos) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[pos]; !ok {
		return false
	}
	delete(cs.chunks, pos)
	delete(cs.dirty, pos)
	cs.modCount++
	return true
}

// Chunk returns the chunk at pos, or nil if it is not loaded.
func (cs *ChunkStore) Chunk(pos ChunkPos) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if sc, ok := cs.chunks[pos]; ok {
		return sc.chunk
	}
	return nil
}

// HasChunk checks if a chunk exists.
func (cs *ChunkStore) HasChunk(pos ChunkPos) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[pos]
	cs.mu.RUnlock()
	return exists
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Positions returns the positions of all loaded chunks in no particular order.
func (cs *ChunkStore) Positions() []ChunkPos {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]ChunkPos, 0, len(cs.chunks))
	for pos := range cs.chunks {
		out = append(out, pos)
	}
	return out
}

// Version returns the modification version of the chunk at pos. The version
// increases whenever the chunk or one of its face neighbours changes.
func (cs *ChunkStore) Version(pos ChunkPos) (uint64, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	sc, ok := cs.chunks[pos]
	if !ok {
		return 0, false
	}
	return sc.version, true
}

// ModCount returns the number of chunk add/remove operations so far.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// GetBlock returns the block at world coordinates, or air if unloaded.
func (cs *ChunkStore) GetBlock(x, y, z int) BlockID {
	pos := ChunkPosFromBlock(x, y, z)
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	sc, ok := cs.chunks[pos]
	if !ok {
		return Air
	}
	return sc.chunk.Get(mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize))
}

// SetBlock writes a block at world coordinates. The owning chunk is marked
// dirty, and so is any loaded neighbour whose seam touches the block.
func (cs *ChunkStore) SetBlock(x, y, z int, id BlockID) error {
	pos := ChunkPosFromBlock(x, y, z)
	lx, ly, lz := mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	sc, ok := cs.chunks[pos]
	if !ok {
		return fmt.Errorf("set block (%d, %d, %d): %w", x, y, z, ErrChunkMissing)
	}
	if !sc.chunk.Set(lx, ly, lz, id) {
		return nil
	}
	sc.version++
	cs.markDirtyLocked(pos)

	// Mark neighbor chunks dirty if we touched a border block
	touch := func(s Side) {
		np := pos.Offset(s)
		if nb, ok := cs.chunks[np]; ok {
			nb.version++
			cs.markDirtyLocked(np)
		}
	}
	if lx == 0 {
		touch(Left)
	} else if lx == ChunkSize-1 {
		touch(Right)
	}
	if ly == 0 {
		touch(Bottom)
	} else if ly == ChunkSize-1 {
		touch(Top)
	}
	if lz == 0 {
		touch(Back)
	} else if lz == ChunkSize-1 {
		touch(Front)
	}
	return nil
}

// MarkDirty queues a loaded chunk for re-meshing. Unloaded positions are ignored.
func (cs *ChunkStore) MarkDirty(pos ChunkPos) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[pos]; ok {
		cs.markDirtyLocked(pos)
	}
}

func (cs *ChunkStore) markDirtyLocked(pos ChunkPos) {
	if _, queued := cs.dirty[pos]; queued {
		return
	}
	cs.dirty[pos] = struct{}{}
	cs.dirtyQueue = append(cs.dirtyQueue, pos)
}

// TakeDirty pops up to n dirty positions in the order they were marked.
// Positions unloaded since they were marked are skipped.
func (cs *ChunkStore) TakeDirty(n int) []ChunkPos {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	var out []ChunkPos
	i := 0
	for ; i < len(cs.dirtyQueue) && len(out) < n; i++ {
		pos := cs.dirtyQueue[i]
		if _, ok := cs.dirty[pos]; !ok {
			continue
		}
		delete(cs.dirty, pos)
		out = append(out, pos)
	}
	cs.dirtyQueue = cs.dirtyQueue[i:]
	if len(cs.dirtyQueue) == 0 {
		cs.dirtyQueue = nil
	}
	return out
}

// DirtyLen returns the number of chunks waiting to be re-meshed.
func (cs *ChunkStore) DirtyLen() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.dirty)
}

// Inspect runs fn with the chunk at pos alone while holding the store's read
// lock. fn must not retain the chunk.
func (cs *ChunkStore) Inspect(pos ChunkPos, fn func(c *Chunk, version uint64)) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	sc, ok := cs.chunks[pos]
	if !ok {
		return fmt.Errorf("inspect %v: %w", pos, ErrChunkMissing)
	}
	fn(sc.chunk, sc.version)
	return nil
}

// View runs fn with the chunk at pos and its six face neighbours while holding
// the store's read lock. fn must not retain the chunks after returning; copy
// what is needed. It returns ErrChunkMissing or ErrNeighborMissing when the
// neighbourhood is incomplete, without calling fn.
func (cs *ChunkStore) View(pos ChunkPos, fn func(n Neighborhood, version uint64)) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	center, ok := cs.chunks[pos]
	if !ok {
		return fmt.Errorf("view %v: %w", pos, ErrChunkMissing)
	}
	n := Neighborhood{Pos: pos, Center: center.chunk}
	get := func(s Side) *Chunk {
		if sc, ok := cs.chunks[pos.Offset(s)]; ok {
			return sc.chunk
		}
		return nil
	}
	n.Top, n.Bottom = get(Top), get(Bottom)
	n.Left, n.Right = get(Left), get(Right)
	n.Front, n.Back = get(Front), get(Back)
	if !n.Complete() {
		return fmt.Errorf("view %v: %w", pos, ErrNeighborMissing)
	}
	fn(n, center.version)
	return nil
}
