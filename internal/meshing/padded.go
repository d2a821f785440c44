package meshing

import (
	"fmt"

	"github.com/XavilPergis/Rustel/internal/world"
)

// PaddedSize is the edge length of a chunk plus its one-cell halo.
const PaddedSize = world.ChunkSize + 2

// PaddedChunk is an immutable snapshot of a chunk together with a one-cell
// halo copied from its six face neighbours, addressed in [-1, ChunkSize]³.
//
// Halo cells on the edges and corners of the padded cube have no face
// neighbour to come from and read as air. Missing neighbours also read as air.
type PaddedChunk struct {
	Pos    world.ChunkPos
	blocks []world.BlockID
}

func paddedIndex(x, y, z int) int {
	return ((x+1)*PaddedSize+(y+1))*PaddedSize + (z + 1)
}

// NewPaddedChunk copies the neighbourhood into a contiguous padded volume.
// The result does not alias any chunk storage.
func NewPaddedChunk(n world.Neighborhood) *PaddedChunk {
	p := &PaddedChunk{
		Pos:    n.Pos,
		blocks: make([]world.BlockID, PaddedSize*PaddedSize*PaddedSize),
	}

	if n.Center != nil {
		if id, ok := n.Center.Homogeneous(); ok {
			if id != world.Air {
				for x := range world.ChunkSize {
					for y := range world.ChunkSize {
						row := p.blocks[paddedIndex(x, y, 0) : paddedIndex(x, y, 0)+world.ChunkSize]
						for i := range row {
							row[i] = id
						}
					}
				}
			}
		} else {
			for x := range world.ChunkSize {
				for y := range world.ChunkSize {
					for z := range world.ChunkSize {
						p.blocks[paddedIndex(x, y, z)] = n.Center.Get(x, y, z)
					}
				}
			}
		}
	}

	for _, side := range world.AllSides {
		p.copyHalo(side, n.Neighbor(side))
	}
	return p
}

// copyHalo fills the halo layer on one side from the facing layer of the
// neighbour chunk.
func (p *PaddedChunk) copyHalo(side world.Side, c *world.Chunk) {
	if c == nil {
		return
	}
	axis := side.Axis()
	ua, va := side.PlaneAxes()
	halo, src := -1, world.ChunkSize-1
	if side.FacingPositive() {
		halo, src = world.ChunkSize, 0
	}

	var dst, from [3]int
	dst[axis], from[axis] = halo, src
	for a := range world.ChunkSize {
		for b := range world.ChunkSize {
			dst[ua], dst[va] = a, b
			from[ua], from[va] = a, b
			p.blocks[paddedIndex(dst[0], dst[1], dst[2])] = c.Get(from[0], from[1], from[2])
		}
	}
}

// At returns the block at chunk-local coordinates in [-1, ChunkSize]³.
// Coordinates past the halo are a caller bug and panic.
func (p *PaddedChunk) At(x, y, z int) world.BlockID {
	if x < -1 || x > world.ChunkSize || y < -1 || y > world.ChunkSize || z < -1 || z > world.ChunkSize {
		panic(fmt.Sprintf("meshing: padded lookup (%d, %d, %d) is outside the halo", x, y, z))
	}
	return p.blocks[paddedIndex(x, y, z)]
}

// centerHomogeneous reports whether every center cell holds the same id.
func (p *PaddedChunk) centerHomogeneous() (world.BlockID, bool) {
	first := p.blocks[paddedIndex(0, 0, 0)]
	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				if p.blocks[paddedIndex(x, y, z)] != first {
					return 0, false
				}
			}
		}
	}
	return first, true
}
