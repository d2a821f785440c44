package meshing

import (
	"math/rand/v2"

	"github.com/XavilPergis/Rustel/internal/profiling"
	"github.com/XavilPergis/Rustel/internal/world"
)

// Options tunes a Mesher.
type Options struct {
	// RandomUV rotates terrain textures per quad. Orientations are drawn from
	// a generator seeded by Seed and the chunk position, so a chunk always
	// meshes the same way for the same seed.
	RandomUV bool
	Seed     uint64
}

// face is one cell of a slice. Cells without a visible face hold the air
// sentinel, which is born visited so the merge never picks it up.
type face struct {
	id      world.BlockID
	ao      FaceAo
	visited bool
}

var airFace = face{id: world.Air, visited: true}

// Mesher builds greedy meshes. A Mesher keeps scratch space between passes
// and must not be shared between goroutines; give each worker its own.
type Mesher struct {
	reg     BlockRegistry
	opts    Options
	faces   []face
	terrain TerrainBuffer
	liquid  LiquidBuffer
	builder quadBuilder
}

// NewMesher creates a mesher that classifies blocks through reg.
func NewMesher(reg BlockRegistry, opts Options) *Mesher {
	return &Mesher{
		reg:     reg,
		opts:    opts,
		faces:   make([]face, world.ChunkArea),
		builder: quadBuilder{reg: reg},
	}
}

// MeshChunk pads the neighbourhood and meshes it with a throwaway Mesher.
func MeshChunk(reg BlockRegistry, n world.Neighborhood, opts Options) (*Meshes, error) {
	return NewMesher(reg, opts).Mesh(NewPaddedChunk(n))
}

// Mesh runs one full pass over p: every side, every layer. The returned
// meshes are owned by the caller. A *TextureError aborts the pass.
func (m *Mesher) Mesh(p *PaddedChunk) (*Meshes, error) {
	defer profiling.Track("meshing.Mesh")()

	m.terrain.reset()
	m.liquid.reset()

	bx, by, bz := p.Pos.Base()
	m.builder.base = [3]float32{float32(bx), float32(by), float32(bz)}
	m.builder.rand = nil
	if m.opts.RandomUV {
		m.builder.rand = rand.New(rand.NewPCG(m.opts.Seed, posStream(p.Pos)))
	}

	if id, ok := p.centerHomogeneous(); ok && !m.reg.Opaque(id) && !m.reg.Liquid(id) {
		return &Meshes{Pos: p.Pos}, nil
	}

	for _, side := range world.AllSides {
		for layer := range world.ChunkSize {
			m.fillSlice(p, side, layer)
			if err := m.mergeSlice(side, layer); err != nil {
				return nil, err
			}
		}
	}

	out := &Meshes{Pos: p.Pos, Terrain: m.terrain, Liquid: m.liquid}
	return out.clone(), nil
}

func posStream(p world.ChunkPos) uint64 {
	return uint64(uint32(p.X))<<40 ^ uint64(uint32(p.Y))<<20 ^ uint64(uint32(p.Z))
}

func sliceCell(side world.Side, layer, u, v int) [3]int {
	var c [3]int
	ua, va := side.PlaneAxes()
	c[side.Axis()] = layer
	c[ua] = u
	c[va] = v
	return c
}

// fillSlice records the visible faces of one layer on one side.
func (m *Mesher) fillSlice(p *PaddedChunk, side world.Side, layer int) {
	n := side.Normal()
	for u := range world.ChunkSize {
		for v := range world.ChunkSize {
			c := sliceCell(side, layer, u, v)
			if !faceVisible(m.reg, p, c[0], c[1], c[2], n) {
				m.faces[u*world.ChunkSize+v] = airFace
				continue
			}
			m.faces[u*world.ChunkSize+v] = face{
				id: p.At(c[0], c[1], c[2]),
				ao: faceAo(m.reg, p, c[0], c[1], c[2], side),
			}
		}
	}
}

func (f face) mergesWith(o face) bool {
	return !o.visited && o.id == f.id && o.ao == f.ao
}

// mergeSlice covers the visible faces of the slice with rectangles, growing
// along u first and then along v, and emits one quad per rectangle.
func (m *Mesher) mergeSlice(side world.Side, layer int) error {
	const size = world.ChunkSize
	for u := range size {
		for v := range size {
			cur := m.faces[u*size+v]
			if cur.visited || (!m.reg.Opaque(cur.id) && !m.reg.Liquid(cur.id)) {
				continue
			}

			width := 1
			for u+width < size && cur.mergesWith(m.faces[(u+width)*size+v]) {
				width++
			}

			height := 1
		grow:
			for v+height < size {
				for du := range width {
					if !cur.mergesWith(m.faces[(u+du)*size+v+height]) {
						break grow
					}
				}
				height++
			}

			for du := range width {
				for dv := range height {
					m.faces[(u+du)*size+v+dv].visited = true
				}
			}

			q := quad{
				side:   side,
				origin: sliceCell(side, layer, u, v),
				width:  width,
				height: height,
				id:     cur.id,
				ao:     cur.ao,
			}
			var err error
			if m.reg.Liquid(cur.id) {
				err = m.builder.appendLiquid(&m.liquid, q)
			} else {
				err = m.builder.appendTerrain(&m.terrain, q, m.opts.RandomUV)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
