package world

import "fmt"

// Neighborhood is a chunk together with its six face-adjacent neighbours.
// Neighbours may be nil when they are not loaded.
type Neighborhood struct {
	Pos    ChunkPos
	Center *Chunk
	Top    *Chunk
	Bottom *Chunk
	Left   *Chunk
	Right  *Chunk
	Front  *Chunk
	Back   *Chunk
}

// Neighbor returns the neighbour chunk on the given side.
func (n *Neighborhood) Neighbor(s Side) *Chunk {
	switch s {
	case Top:
		return n.Top
	case Bottom:
		return n.Bottom
	case Left:
		return n.Left
	case Right:
		return n.Right
	case Front:
		return n.Front
	default:
		return n.Back
	}
}

// Complete reports whether the center and all six neighbours are present.
func (n *Neighborhood) Complete() bool {
	if n.Center == nil {
		return false
	}
	for _, s := range AllSides {
		if n.Neighbor(s) == nil {
			return false
		}
	}
	return true
}

// Get resolves a coordinate relative to the center chunk. Coordinates that are
// out of range along exactly one axis are wrapped into that neighbour. It
// returns false when the neighbour is not loaded.
//
// Looking past the adjacent chunk, or out of range along more than one axis,
// violates the caller's contract and panics.
func (n *Neighborhood) Get(x, y, z int) (BlockID, bool) {
	p := [3]int{x, y, z}
	side, out := Side(0), 0
	for axis, c := range p {
		if c >= 0 && c < ChunkSize {
			continue
		}
		if c < -ChunkSize || c >= 2*ChunkSize {
			panic(fmt.Sprintf("world: neighborhood lookup (%d, %d, %d) is beyond the adjacent chunk", x, y, z))
		}
		out++
		side = sideFor(axis, c >= ChunkSize)
	}
	switch out {
	case 0:
		if n.Center == nil {
			return Air, false
		}
		return n.Center.Get(x, y, z), true
	case 1:
		c := n.Neighbor(side)
		if c == nil {
			return Air, false
		}
		return c.Get(mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize)), true
	default:
		panic(fmt.Sprintf("world: neighborhood lookup (%d, %d, %d) is out of range on %d axes", x, y, z, out))
	}
}

func sideFor(axis int, positive bool) Side {
	switch axis {
	case AxisX:
		if positive {
			return Right
		}
		return Left
	case AxisY:
		if positive {
			return Top
		}
		return Bottom
	default:
		if positive {
			return Front
		}
		return Back
	}
}
