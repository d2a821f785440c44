package meshing

import (
	"context"
	"sync"
	"time"

	"github.com/XavilPergis/Rustel/internal/world"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	Padded  *PaddedChunk
	Version uint64 // store version the snapshot was taken at
	// Result channel - will be sent the result when done
	ResultChan chan<- MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Pos     world.ChunkPos
	Version uint64
	Meshes  *Meshes
	Err     error
	Elapsed time.Duration
}

// WorkerPool manages goroutines for mesh generation. Every worker owns its
// own Mesher, so scratch buffers are never shared.
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(reg BlockRegistry, opts Options, workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	workers = max(workers, 1)
	queueSize = max(queueSize, 1)

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Start worker goroutines
	for range workers {
		pool.wg.Add(1)
		go pool.worker(NewMesher(reg, opts))
	}

	return pool
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// Submit submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) Submit(job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitBlocking submits a job and blocks until it's queued, ctx is done or
// the pool shuts down.
func (p *WorkerPool) SubmitBlocking(ctx context.Context, job MeshJob) error {
	if p.ctx.Err() != nil {
		return context.Canceled
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return context.Canceled
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(m *Mesher) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			start := time.Now()
			meshes, err := m.Mesh(job.Padded)

			result := MeshResult{
				Pos:     job.Padded.Pos,
				Version: job.Version,
				Meshes:  meshes,
				Err:     err,
				Elapsed: time.Since(start),
			}

			// Send result back
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them to exit. Jobs still queued
// are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// QueueLength returns the current number of jobs in the queue
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}
