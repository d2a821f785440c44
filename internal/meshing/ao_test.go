package meshing

import (
	"testing"

	"github.com/XavilPergis/Rustel/internal/world"
	"github.com/stretchr/testify/assert"
)

func TestAOValue(t *testing.T) {
	tests := []struct {
		side1, corner, side2 bool
		want                 uint8
	}{
		{false, false, false, 3},
		{false, true, false, 2},
		{true, false, false, 2},
		{false, false, true, 2},
		{true, true, false, 1},
		{false, true, true, 1},
		{true, false, true, 0},
		{true, true, true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, aoValue(tt.side1, tt.corner, tt.side2), "%+v", tt)
	}
}

func TestFaceAoCorners(t *testing.T) {
	// Diagonal above the +x +z corner of the top face.
	p := NewPaddedChunk(airNeighborhood(world.ChunkPos{}, chunkWith(map[[3]int]world.BlockID{
		{0, 0, 0}: stone, {1, 1, 1}: stone,
	})))
	ao := faceAo(testReg, p, 0, 0, 0, world.Top)
	assert.Equal(t, uint8(2), ao.Corner(AOPosPos))
	assert.Equal(t, uint8(3), ao.Corner(AOPosNeg))
	assert.Equal(t, uint8(3), ao.Corner(AONegNeg))
	assert.Equal(t, uint8(3), ao.Corner(AONegPos))
	assert.Equal(t, FaceAo(0xBF), ao)
}

func TestFaceAoEdgeOccludesTwoCorners(t *testing.T) {
	// A block above the -u edge of a Right face shades both -u corners.
	p := NewPaddedChunk(airNeighborhood(world.ChunkPos{}, chunkWith(map[[3]int]world.BlockID{
		{4, 4, 4}: stone, {5, 3, 4}: stone,
	})))
	ao := faceAo(testReg, p, 4, 4, 4, world.Right)
	assert.Equal(t, uint8(2), ao.Corner(AONegNeg))
	assert.Equal(t, uint8(2), ao.Corner(AONegPos))
	assert.Equal(t, uint8(3), ao.Corner(AOPosNeg))
	assert.Equal(t, uint8(3), ao.Corner(AOPosPos))
}

func TestFaceAoIgnoresLiquidAndGlass(t *testing.T) {
	p := NewPaddedChunk(airNeighborhood(world.ChunkPos{}, chunkWith(map[[3]int]world.BlockID{
		{4, 4, 4}: stone, {5, 5, 5}: glass, {3, 5, 3}: water,
		{8, 8, 8}: water, {9, 9, 9}: stone,
	})))
	assert.Equal(t, FullLight, faceAo(testReg, p, 4, 4, 4, world.Top))
	assert.Equal(t, FaceAo(0), faceAo(testReg, p, 8, 8, 8, world.Top))
}

func TestFaceAoScalar(t *testing.T) {
	assert.Equal(t, float32(1), FullLight.Scalar(AOPosPos))
	assert.Equal(t, float32(0), FaceAo(0).Scalar(AONegNeg))
	assert.InDelta(t, 2.0/3.0, float64(FaceAo(0xBF).Scalar(AOPosPos)), 1e-6)
}
