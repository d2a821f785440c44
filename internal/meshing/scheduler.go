package meshing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/XavilPergis/Rustel/internal/world"
	"go.uber.org/zap"
)

// SchedulerOptions tunes how a Scheduler drains the dirty queue.
type SchedulerOptions struct {
	Batch int           // dirty chunks taken per Pump in Run
	Tick  time.Duration // how often Run pumps when no results arrive
}

// Scheduler drives meshing: it takes dirty chunks from the store, snapshots
// them, hands them to the pool and routes results into a Sink.
//
// At most one pass per chunk is in flight. Results for chunks that were
// unloaded meanwhile are dropped; results for chunks that changed meanwhile
// are dropped and the chunk is queued again.
type Scheduler struct {
	store   *world.ChunkStore
	pool    *WorkerPool
	reg     BlockRegistry
	sink    Sink
	log     *zap.Logger
	metrics *Metrics
	opts    SchedulerOptions

	results chan MeshResult

	mu       sync.Mutex
	inflight map[world.ChunkPos]uint64
	again    map[world.ChunkPos]struct{} // dirtied while in flight
}

// NewScheduler wires a scheduler. log and metrics may be nil.
func NewScheduler(store *world.ChunkStore, pool *WorkerPool, reg BlockRegistry, sink Sink,
	log *zap.Logger, metrics *Metrics, opts SchedulerOptions) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if opts.Batch <= 0 {
		opts.Batch = 64
	}
	if opts.Tick <= 0 {
		opts.Tick = 10 * time.Millisecond
	}
	return &Scheduler{
		store:    store,
		pool:     pool,
		reg:      reg,
		sink:     sink,
		log:      log,
		metrics:  metrics,
		opts:     opts,
		results:  make(chan MeshResult, cap(pool.jobQueue)+pool.Workers()),
		inflight: make(map[world.ChunkPos]uint64),
		again:    make(map[world.ChunkPos]struct{}),
	}
}

// Pump takes up to n dirty chunks and submits a pass for each one that can be
// meshed now. It returns the number of passes submitted.
//
// Chunks that are already in flight are held back and marked dirty again
// once their pass is handled. Chunks that do not fit in the pool queue are
// marked dirty again right away. Chunks with a missing neighbour are left
// alone; loading that neighbour marks them dirty.
func (s *Scheduler) Pump(n int) int {
	var retry []world.ChunkPos
	submitted := 0

	for _, pos := range s.store.TakeDirty(n) {
		if s.holdIfInflight(pos) {
			continue
		}

		empty, err := s.publishIfEmpty(pos)
		if errors.Is(err, world.ErrChunkMissing) {
			s.sink.Remove(pos)
			continue
		}
		if empty {
			continue
		}

		var job MeshJob
		err = s.store.View(pos, func(nb world.Neighborhood, version uint64) {
			job = MeshJob{Padded: NewPaddedChunk(nb), Version: version, ResultChan: s.results}
		})
		switch {
		case errors.Is(err, world.ErrNeighborMissing):
			s.log.Debug("chunk waiting for neighbors", zap.Any("pos", pos))
			continue
		case errors.Is(err, world.ErrChunkMissing):
			s.sink.Remove(pos)
			continue
		case err != nil:
			s.log.Error("snapshot failed", zap.Any("pos", pos), zap.Error(err))
			continue
		}

		s.mu.Lock()
		if !s.pool.Submit(job) {
			s.mu.Unlock()
			retry = append(retry, pos)
			continue
		}
		s.inflight[pos] = job.Version
		s.mu.Unlock()
		s.metrics.inflight.Inc()
		submitted++
	}

	for _, pos := range retry {
		s.store.MarkDirty(pos)
	}
	s.metrics.requeued.Add(float64(len(retry)))
	s.metrics.queueDepth.Set(float64(s.store.DirtyLen()))
	return submitted
}

func (s *Scheduler) holdIfInflight(pos world.ChunkPos) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[pos]; !ok {
		return false
	}
	s.again[pos] = struct{}{}
	return true
}

// publishIfEmpty publishes an empty mesh for chunks made of one block that
// never emits faces, without running a pass.
func (s *Scheduler) publishIfEmpty(pos world.ChunkPos) (bool, error) {
	empty := false
	err := s.store.Inspect(pos, func(c *world.Chunk, _ uint64) {
		id, ok := c.Homogeneous()
		empty = ok && !s.reg.Opaque(id) && !s.reg.Liquid(id)
	})
	if err != nil || !empty {
		return false, err
	}
	s.sink.Publish(&Meshes{Pos: pos})
	s.metrics.empty.Inc()
	return true, nil
}

// Collect handles every result that is ready without blocking and returns
// how many were handled.
func (s *Scheduler) Collect() int {
	handled := 0
	for {
		select {
		case r := <-s.results:
			s.handle(r)
			handled++
		default:
			return handled
		}
	}
}

func (s *Scheduler) handle(r MeshResult) {
	s.mu.Lock()
	delete(s.inflight, r.Pos)
	_, again := s.again[r.Pos]
	delete(s.again, r.Pos)
	s.mu.Unlock()
	s.metrics.inflight.Dec()
	if again {
		defer s.store.MarkDirty(r.Pos)
	}

	version, loaded := s.store.Version(r.Pos)
	if !loaded {
		s.metrics.discarded.Inc()
		s.sink.Remove(r.Pos)
		return
	}

	if r.Err != nil {
		var texErr *TextureError
		if errors.As(r.Err, &texErr) {
			s.log.Error("block registry misconfigured",
				zap.Any("pos", r.Pos),
				zap.Uint16("block", uint16(texErr.ID)),
				zap.Stringer("side", texErr.Side))
		} else {
			s.log.Error("mesh pass failed", zap.Any("pos", r.Pos), zap.Error(r.Err))
		}
		s.metrics.errors.Inc()
		return
	}

	if version != r.Version {
		s.metrics.discarded.Inc()
		s.store.MarkDirty(r.Pos)
		return
	}

	s.metrics.observePass(r.Meshes.QuadCount(), r.Elapsed)
	if s.sink.Publish(r.Meshes) {
		s.log.Debug("mesh published",
			zap.Any("pos", r.Pos),
			zap.Int("quads", r.Meshes.QuadCount()),
			zap.Duration("elapsed", r.Elapsed))
	}
}

// Inflight returns the number of passes submitted and not yet collected.
func (s *Scheduler) Inflight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Idle reports whether there is neither dirty nor in-flight work.
func (s *Scheduler) Idle() bool {
	return s.Inflight() == 0 && s.store.DirtyLen() == 0
}

// Run pumps and collects until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()
	for {
		s.Pump(s.opts.Batch)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-s.results:
			s.handle(r)
		case <-ticker.C:
		}
	}
}

// Drain pumps and collects until the scheduler is idle or ctx is done.
func (s *Scheduler) Drain(ctx context.Context) error {
	for {
		s.Pump(s.opts.Batch)
		if s.Idle() {
			return nil
		}
		if s.Inflight() == 0 {
			// More dirty chunks than one batch.
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-s.results:
			s.handle(r)
		}
	}
}
