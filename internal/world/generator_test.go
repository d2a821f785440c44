package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = Palette{Stone: 1, Dirt: 2, Grass: 3, Sand: 4, Water: 5}

func TestFlatGeneratorPopulate(t *testing.T) {
	g := NewFlatGenerator(5, 1)
	assert.Equal(t, 5, g.HeightAt(100, -50))

	c := NewChunk()
	g.PopulateChunk(ChunkPos{}, c)
	assert.Equal(t, BlockID(1), c.Get(0, 5, 0))
	assert.Equal(t, Air, c.Get(0, 6, 0))

	below := NewChunk()
	g.PopulateChunk(ChunkPos{Y: -1}, below)
	id, ok := below.Homogeneous()
	require.True(t, ok, "a chunk fully below the surface compacts")
	assert.Equal(t, BlockID(1), id)
}

func TestGeneratorDeterminism(t *testing.T) {
	a := NewGenerator(12345, testPalette)
	b := NewGenerator(12345, testPalette)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.HeightAt(i*7, -i*3), b.HeightAt(i*7, -i*3))
	}

	ca, cb := NewChunk(), NewChunk()
	a.PopulateChunk(ChunkPos{}, ca)
	b.PopulateChunk(ChunkPos{}, cb)
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				require.Equal(t, ca.Get(x, y, z), cb.Get(x, y, z))
			}
		}
	}
}

func TestGeneratorLayers(t *testing.T) {
	g := NewGenerator(1, testPalette)
	g.SetSeaLevel(-1000)
	c := NewChunk()
	g.PopulateChunk(ChunkPos{}, c)
	h := g.HeightAt(0, 0)
	if h < 4 || h >= ChunkSize {
		t.Skipf("surface height %d outside the sampled chunk", h)
	}
	assert.Equal(t, testPalette.Grass, c.Get(0, h, 0))
	assert.Equal(t, testPalette.Dirt, c.Get(0, h-1, 0))
	assert.Equal(t, testPalette.Stone, c.Get(0, h-4, 0))
	if h+1 < ChunkSize {
		assert.Equal(t, Air, c.Get(0, h+1, 0))
	}
}

func TestStreamerGeneratesRegion(t *testing.T) {
	cs := NewChunkStore()
	s := NewChunkStreamer(cs, NewFlatGenerator(0, 1), 2)
	defer s.Close()

	queued := s.StreamAround(ChunkPos{}, 1)
	assert.Equal(t, 27, queued)
	s.Wait()
	assert.Equal(t, 27, cs.Len())
	assert.False(t, s.Request(ChunkPos{}), "already loaded")
	assert.Equal(t, 0, s.StreamAround(ChunkPos{}, 1))
}
