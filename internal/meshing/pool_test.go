package meshing

import (
	"context"
	"testing"
	"time"

	"github.com/XavilPergis/Rustel/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolMeshesJobs(t *testing.T) {
	pool := NewWorkerPool(testReg, Options{}, 2, 8)
	defer pool.Shutdown()

	results := make(chan MeshResult, 4)
	for i := range 4 {
		pos := world.ChunkPos{X: i}
		n := airNeighborhood(pos, chunkWith(map[[3]int]world.BlockID{{i, 0, 0}: stone}))
		require.True(t, pool.Submit(MeshJob{Padded: NewPaddedChunk(n), Version: uint64(i), ResultChan: results}))
	}

	seen := map[world.ChunkPos]uint64{}
	for range 4 {
		select {
		case r := <-results:
			require.NoError(t, r.Err)
			assert.Equal(t, 6, r.Meshes.Terrain.Quads())
			assert.Equal(t, r.Pos, r.Meshes.Pos)
			seen[r.Pos] = r.Version
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for mesh results")
		}
	}
	for i := range 4 {
		assert.Equal(t, uint64(i), seen[world.ChunkPos{X: i}])
	}
}

func TestWorkerPoolSubmitFull(t *testing.T) {
	pool := NewWorkerPool(testReg, Options{}, 1, 1)
	defer pool.Shutdown()

	// Unbuffered and never read, so the single worker blocks on its first result.
	results := make(chan MeshResult)
	job := MeshJob{Padded: NewPaddedChunk(airNeighborhood(world.ChunkPos{}, world.NewChunk())), ResultChan: results}

	accepted := 0
	for range 10 {
		if pool.Submit(job) {
			accepted++
		}
	}
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, accepted, 1)
}

func TestWorkerPoolShutdown(t *testing.T) {
	pool := NewWorkerPool(testReg, Options{}, 3, 4)
	assert.Equal(t, 3, pool.Workers())
	pool.Shutdown()

	job := MeshJob{Padded: NewPaddedChunk(airNeighborhood(world.ChunkPos{}, world.NewChunk())), ResultChan: make(chan MeshResult, 1)}
	assert.False(t, pool.Submit(job))

	assert.ErrorIs(t, pool.SubmitBlocking(context.Background(), job), context.Canceled)
	assert.Zero(t, pool.QueueLength())
}

func TestWorkerPoolReportsMeshErrors(t *testing.T) {
	reg := brokenRegistry(t)
	pool := NewWorkerPool(reg, Options{}, 1, 1)
	defer pool.Shutdown()

	results := make(chan MeshResult, 1)
	n := airNeighborhood(world.ChunkPos{}, chunkWith(map[[3]int]world.BlockID{{0, 0, 0}: 1}))
	require.True(t, pool.Submit(MeshJob{Padded: NewPaddedChunk(n), ResultChan: results}))

	r := <-results
	assert.ErrorIs(t, r.Err, ErrMissingTexture)
	assert.Nil(t, r.Meshes)
}
