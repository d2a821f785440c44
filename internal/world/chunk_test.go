package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkHomogeneousExpandsOnWrite(t *testing.T) {
	c := NewHomogeneousChunk(7)
	id, ok := c.Homogeneous()
	require.True(t, ok)
	assert.Equal(t, BlockID(7), id)

	assert.False(t, c.Set(1, 2, 3, 7), "writing the fill id is a no-op")
	_, ok = c.Homogeneous()
	assert.True(t, ok)

	assert.True(t, c.Set(1, 2, 3, 9))
	_, ok = c.Homogeneous()
	assert.False(t, ok)
	assert.Equal(t, BlockID(9), c.Get(1, 2, 3))
	assert.Equal(t, BlockID(7), c.Get(0, 0, 0))
}

func TestChunkOutOfBounds(t *testing.T) {
	c := NewHomogeneousChunk(3)
	assert.Equal(t, Air, c.Get(-1, 0, 0))
	assert.Equal(t, Air, c.Get(0, ChunkSize, 0))
	assert.False(t, c.Set(0, 0, ChunkSize, 1))
}

func TestChunkCompact(t *testing.T) {
	c := NewChunk()
	c.Set(4, 4, 4, 2)
	assert.False(t, c.Compact())
	c.Set(4, 4, 4, Air)
	assert.True(t, c.Compact())
	id, ok := c.Homogeneous()
	require.True(t, ok)
	assert.Equal(t, Air, id)
}

func TestChunkCloneIsDeep(t *testing.T) {
	c := NewChunk()
	c.Set(0, 0, 0, 5)
	cp := c.Clone()
	c.Set(0, 0, 0, 6)
	assert.Equal(t, BlockID(5), cp.Get(0, 0, 0))
}

func TestNewArrayChunkPanicsOnWrongLength(t *testing.T) {
	assert.Panics(t, func() { NewArrayChunk(make([]BlockID, 10)) })
}

func TestChunkPosFromBlock(t *testing.T) {
	tests := []struct {
		x, y, z int
		want    ChunkPos
	}{
		{0, 0, 0, ChunkPos{0, 0, 0}},
		{ChunkSize - 1, 0, 0, ChunkPos{0, 0, 0}},
		{ChunkSize, 0, 0, ChunkPos{1, 0, 0}},
		{-1, -1, -1, ChunkPos{-1, -1, -1}},
		{-ChunkSize, 0, -ChunkSize - 1, ChunkPos{-1, 0, -2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChunkPosFromBlock(tt.x, tt.y, tt.z), "block (%d,%d,%d)", tt.x, tt.y, tt.z)
	}
}

func TestSideGeometry(t *testing.T) {
	for _, s := range AllSides {
		n := s.Normal()
		sum := n[0] + n[1] + n[2]
		if s.FacingPositive() {
			assert.Equal(t, 1, sum, s.String())
		} else {
			assert.Equal(t, -1, sum, s.String())
		}
		assert.Equal(t, s, s.Opposite().Opposite())
		assert.Equal(t, s.Axis(), s.Opposite().Axis())

		u, v := s.PlaneAxes()
		assert.NotEqual(t, u, v)
		assert.NotEqual(t, s.Axis(), u)
		assert.NotEqual(t, s.Axis(), v)

		assert.Equal(t, n, s.UVLToXYZ(0, 0, 1), "l=1 steps along the outward normal of %s", s)

		parsed, ok := ParseSide(s.String())
		require.True(t, ok)
		assert.Equal(t, s, parsed)
	}
	_, ok := ParseSide("sideways")
	assert.False(t, ok)
}

func TestChunkPosOffset(t *testing.T) {
	p := ChunkPos{1, 2, 3}
	assert.Equal(t, ChunkPos{1, 3, 3}, p.Offset(Top))
	assert.Equal(t, ChunkPos{0, 2, 3}, p.Offset(Left))
	assert.Equal(t, ChunkPos{1, 2, 2}, p.Offset(Back))
	x, y, z := p.Base()
	assert.Equal(t, [3]int{ChunkSize, 2 * ChunkSize, 3 * ChunkSize}, [3]int{x, y, z})
}
