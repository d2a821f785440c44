package world

import (
	"runtime"
	"sync"
)

// ChunkStreamer manages asynchronous chunk generation and loading.
type ChunkStreamer struct {
	jobs       chan ChunkPos
	pending    map[ChunkPos]struct{}
	pendingMu  sync.Mutex
	maxPending int
	closed     bool
	inflight   sync.WaitGroup
	workers    sync.WaitGroup

	// Dependencies
	store *ChunkStore
	gen   TerrainGenerator
}

// NewChunkStreamer creates a new chunk streamer with one worker per CPU when
// workers is not positive.
func NewChunkStreamer(store *ChunkStore, gen TerrainGenerator, workers int) *ChunkStreamer {
	cs := &ChunkStreamer{
		jobs:       make(chan ChunkPos, 4096),
		pending:    make(map[ChunkPos]struct{}),
		maxPending: 16384,
		store:      store,
		gen:        gen,
	}

	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	for range workers {
		cs.workers.Add(1)
		go cs.worker()
	}

	return cs
}

// Close stops the background generation workers after queued work drains.
// Requests made after Close are refused. Close may be called more than once.
func (cs *ChunkStreamer) Close() {
	cs.pendingMu.Lock()
	if cs.closed {
		cs.pendingMu.Unlock()
		return
	}
	cs.closed = true
	close(cs.jobs)
	cs.pendingMu.Unlock()
	cs.workers.Wait()
}

// Wait blocks until every accepted request has been generated.
func (cs *ChunkStreamer) Wait() {
	cs.inflight.Wait()
}

func (cs *ChunkStreamer) worker() {
	defer cs.workers.Done()
	for pos := range cs.jobs {
		cs.generateChunkSync(pos)
		cs.pendingMu.Lock()
		delete(cs.pending, pos)
		cs.pendingMu.Unlock()
		cs.inflight.Done()
	}
}

// generateChunkSync builds and installs a chunk if missing.
func (cs *ChunkStreamer) generateChunkSync(pos ChunkPos) {
	if cs.store.HasChunk(pos) {
		return
	}
	chunk := NewChunk()
	cs.gen.PopulateChunk(pos, chunk)
	cs.store.AddChunk(pos, chunk)
}

// Request queues one chunk for generation. It returns false when the chunk is
// already loaded or pending, when the queue is full, or after Close.
func (cs *ChunkStreamer) Request(pos ChunkPos) bool {
	if cs.store.HasChunk(pos) {
		return false
	}

	// The send happens under pendingMu so Close cannot close jobs mid-request.
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	if cs.closed {
		return false
	}
	if _, ok := cs.pending[pos]; ok {
		return false
	}
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		return false
	}

	select {
	case cs.jobs <- pos:
		cs.pending[pos] = struct{}{}
		cs.inflight.Add(1)
		return true
	default:
		return false
	}
}

// StreamAround requests every chunk within a cube of the given radius around
// center, nearest shells first. It returns the number of chunks queued.
func (cs *ChunkStreamer) StreamAround(center ChunkPos, radius int) int {
	queued := 0
	for r := 0; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				for dz := -r; dz <= r; dz++ {
					if max(abs(dx), abs(dy), abs(dz)) != r {
						continue
					}
					if cs.Request(ChunkPos{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}) {
						queued++
					}
				}
			}
		}
	}
	return queued
}

// StreamAroundSync generates the same region as StreamAround on the calling goroutine.
func (cs *ChunkStreamer) StreamAroundSync(center ChunkPos, radius int) {
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				cs.generateChunkSync(ChunkPos{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz})
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
