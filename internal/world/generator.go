package world

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// TerrainGenerator fills freshly created chunks.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
	PopulateChunk(pos ChunkPos, c *Chunk)
}

// Palette names the block ids a generator places.
type Palette struct {
	Stone BlockID
	Dirt  BlockID
	Grass BlockID
	Sand  BlockID
	Water BlockID
}

// Generator handles terrain generation logic.
type Generator struct {
	noise       opensimplex.Noise
	palette     Palette
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
	seaLevel    int
}

// NewGenerator creates a new generator with default settings.
func NewGenerator(seed int64, palette Palette) *Generator {
	return &Generator{
		noise:       opensimplex.NewNormalized(seed),
		palette:     palette,
		scale:       1.0 / 64.0,
		baseHeight:  8,
		amp:         24,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		seaLevel:    10,
	}
}

// SetSeaLevel changes the height below which open cells are filled with water.
func (g *Generator) SetSeaLevel(level int) {
	g.seaLevel = level
}

func (g *Generator) octave(x, z float64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for range g.octaves {
		sum += g.noise.Eval2(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= g.persistence
		frequency *= g.lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm // [0,1]
}

// HeightAt computes world surface height (block Y) at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.octave(float64(worldX)*g.scale, float64(worldZ)*g.scale)
	return int(math.Floor(float64(g.baseHeight) + n*g.amp))
}

// PopulateChunk fills a chunk using the noise heightmap.
func (g *Generator) PopulateChunk(pos ChunkPos, c *Chunk) {
	bx, by, bz := pos.Base()
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			height := g.HeightAt(bx+lx, bz+lz)
			for ly := range ChunkSize {
				wy := by + ly
				c.Set(lx, ly, lz, g.blockAt(wy, height))
			}
		}
	}
	c.Compact()
}

func (g *Generator) blockAt(wy, height int) BlockID {
	beach := height <= g.seaLevel+1
	switch {
	case wy < height-3:
		return g.palette.Stone
	case wy < height:
		if beach {
			return g.palette.Sand
		}
		return g.palette.Dirt
	case wy == height:
		if beach {
			return g.palette.Sand
		}
		return g.palette.Grass
	case wy <= g.seaLevel:
		return g.palette.Water
	default:
		return Air
	}
}

// FlatGenerator produces a flat world of one block type up to a fixed height.
type FlatGenerator struct {
	height int
	block  BlockID
}

// NewFlatGenerator creates a generator whose surface is at height.
func NewFlatGenerator(height int, block BlockID) *FlatGenerator {
	return &FlatGenerator{height: height, block: block}
}

func (g *FlatGenerator) HeightAt(_, _ int) int { return g.height }

func (g *FlatGenerator) PopulateChunk(pos ChunkPos, c *Chunk) {
	_, by, _ := pos.Base()
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			for ly := range ChunkSize {
				if by+ly <= g.height {
					c.Set(lx, ly, lz, g.block)
				}
			}
		}
	}
	c.Compact()
}
