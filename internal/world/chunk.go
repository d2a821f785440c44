package world

const (
	// ChunkSize is the edge length of a cubic chunk.
	ChunkSize   = 32
	ChunkArea   = ChunkSize * ChunkSize
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// ChunkPos addresses a chunk in chunk units.
type ChunkPos struct {
	X, Y, Z int
}

// Offset returns the position of the chunk adjacent on the given side.
func (p ChunkPos) Offset(s Side) ChunkPos {
	n := s.Normal()
	return ChunkPos{X: p.X + n[0], Y: p.Y + n[1], Z: p.Z + n[2]}
}

// Base returns the world block coordinates of the chunk's (0,0,0) corner.
func (p ChunkPos) Base() (x, y, z int) {
	return p.X * ChunkSize, p.Y * ChunkSize, p.Z * ChunkSize
}

// ChunkPosFromBlock returns the chunk containing world block (x, y, z).
func ChunkPosFromBlock(x, y, z int) ChunkPos {
	return ChunkPos{X: floorDiv(x, ChunkSize), Y: floorDiv(y, ChunkSize), Z: floorDiv(z, ChunkSize)}
}

// Chunk is a ChunkSize³ volume of blocks. A chunk made of a single block
// type is stored as that one id until a differing block is written.
type Chunk struct {
	fill   BlockID
	blocks []BlockID // nil while homogeneous
}

// NewHomogeneousChunk creates a chunk filled with a single block type.
func NewHomogeneousChunk(id BlockID) *Chunk {
	return &Chunk{fill: id}
}

// NewChunk creates an empty (all air) chunk.
func NewChunk() *Chunk {
	return NewHomogeneousChunk(Air)
}

// NewArrayChunk wraps a full block array laid out as index(x, y, z).
// It panics if the slice is not exactly ChunkVolume long.
func NewArrayChunk(blocks []BlockID) *Chunk {
	if len(blocks) != ChunkVolume {
		panic("world: array chunk must hold exactly ChunkVolume blocks")
	}
	return &Chunk{blocks: blocks}
}

func index(x, y, z int) int {
	return (x*ChunkSize+y)*ChunkSize + z
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// Get returns the block at local coordinates. Out-of-bounds reads return air.
func (c *Chunk) Get(x, y, z int) BlockID {
	if !inBounds(x, y, z) {
		return Air
	}
	if c.blocks == nil {
		return c.fill
	}
	return c.blocks[index(x, y, z)]
}

// Set writes a block at local coordinates and reports whether anything changed.
func (c *Chunk) Set(x, y, z int, id BlockID) bool {
	if !inBounds(x, y, z) {
		return false
	}
	if c.blocks == nil {
		if id == c.fill {
			return false
		}
		c.blocks = make([]BlockID, ChunkVolume)
		for i := range c.blocks {
			c.blocks[i] = c.fill
		}
	}
	i := index(x, y, z)
	if c.blocks[i] == id {
		return false
	}
	c.blocks[i] = id
	return true
}

// Homogeneous returns the single block id of a uniform chunk.
func (c *Chunk) Homogeneous() (BlockID, bool) {
	if c.blocks == nil {
		return c.fill, true
	}
	return 0, false
}

// Compact collapses a uniform array chunk back into homogeneous form.
func (c *Chunk) Compact() bool {
	if c.blocks == nil {
		return false
	}
	first := c.blocks[0]
	for _, b := range c.blocks[1:] {
		if b != first {
			return false
		}
	}
	c.fill = first
	c.blocks = nil
	return true
}

// Clone returns a deep copy of the chunk.
func (c *Chunk) Clone() *Chunk {
	out := &Chunk{fill: c.fill}
	if c.blocks != nil {
		out.blocks = make([]BlockID, len(c.blocks))
		copy(out.blocks, c.blocks)
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
