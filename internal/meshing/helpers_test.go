package meshing

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/XavilPergis/Rustel/internal/registry"
	"github.com/XavilPergis/Rustel/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

var testReg = registry.Default()

var (
	stone = testReg.MustLookup("stone")
	dirt  = testReg.MustLookup("dirt")
	water = testReg.MustLookup("water")
	glass = testReg.MustLookup("glass")
)

// brokenRegistry defines block 1 with no top or bottom texture.
func brokenRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.BlockDefinition{
		{ID: 0, Name: "air"},
		{ID: 1, Name: "pillar", Opaque: true, TextureSide: "pillar.png"},
	})
	require.NoError(t, err)
	return reg
}

func airNeighborhood(pos world.ChunkPos, center *world.Chunk) world.Neighborhood {
	return world.Neighborhood{
		Pos:    pos,
		Center: center,
		Top:    world.NewChunk(),
		Bottom: world.NewChunk(),
		Left:   world.NewChunk(),
		Right:  world.NewChunk(),
		Front:  world.NewChunk(),
		Back:   world.NewChunk(),
	}
}

func chunkWith(blocks map[[3]int]world.BlockID) *world.Chunk {
	c := world.NewChunk()
	for p, id := range blocks {
		c.Set(p[0], p[1], p[2], id)
	}
	return c
}

func randomChunk(r *rand.Rand) *world.Chunk {
	c := world.NewChunk()
	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				// Bias by height so large uniform regions show up.
				f := r.Float64() + float64(y-16)/24
				switch {
				case f < 0.45:
					c.Set(x, y, z, stone)
				case f < 0.5:
					c.Set(x, y, z, dirt)
				case f < 0.6:
					c.Set(x, y, z, water)
				case f < 0.63:
					c.Set(x, y, z, glass)
				}
			}
		}
	}
	return c
}

func randomNeighborhood(seed uint64) world.Neighborhood {
	r := rand.New(rand.NewPCG(seed, 7))
	return world.Neighborhood{
		Pos:    world.ChunkPos{X: 1, Y: -2, Z: 3},
		Center: randomChunk(r),
		Top:    randomChunk(r),
		Bottom: randomChunk(r),
		Left:   randomChunk(r),
		Right:  randomChunk(r),
		Front:  randomChunk(r),
		Back:   randomChunk(r),
	}
}

func mesh(t testing.TB, n world.Neighborhood) *Meshes {
	t.Helper()
	m, err := MeshChunk(testReg, n, Options{})
	require.NoError(t, err)
	return m
}

type cellKey struct {
	side    world.Side
	x, y, z int
}

// visibleFaces computes the expected face set straight from block rules.
func visibleFaces(reg BlockRegistry, n world.Neighborhood) map[cellKey]world.BlockID {
	out := make(map[cellKey]world.BlockID)
	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				cur, _ := n.Get(x, y, z)
				for _, side := range world.AllSides {
					d := side.Normal()
					other, _ := n.Get(x+d[0], y+d[1], z+d[2])
					var show bool
					if reg.Liquid(cur) {
						show = !reg.Opaque(other) && !reg.Liquid(other)
					} else {
						show = reg.Opaque(cur) && (!reg.Opaque(other) || reg.Liquid(other))
					}
					if show {
						out[cellKey{side, x, y, z}] = cur
					}
				}
			}
		}
	}
	return out
}

// decodedQuad is a quad recovered from four emitted vertices.
type decodedQuad struct {
	side      world.Side
	layer     int
	u0, u1    int
	v0, v1    int
	texID     int32
	ao        FaceAo
	positions [4]mgl32.Vec3
}

func sideFromNormal(n mgl32.Vec3) world.Side {
	for _, s := range world.AllSides {
		d := s.Normal()
		if n == (mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}) {
			return s
		}
	}
	panic("not an axis normal")
}

func decodeQuad(pos world.ChunkPos, p [4]mgl32.Vec3, normal mgl32.Vec3, tex int32, ao [4]float32) decodedQuad {
	side := sideFromNormal(normal)
	bx, by, bz := pos.Base()
	base := [3]int{bx, by, bz}
	axis := side.Axis()
	ua, va := side.PlaneAxes()

	local := func(v mgl32.Vec3, a int) int { return int(v[a]) - base[a] }
	q := decodedQuad{side: side, texID: tex, positions: p, u0: math.MaxInt, v0: math.MaxInt, u1: math.MinInt, v1: math.MinInt}
	q.layer = local(p[0], axis)
	if side.FacingPositive() {
		q.layer--
	}
	for _, v := range p {
		q.u0, q.u1 = min(q.u0, local(v, ua)), max(q.u1, local(v, ua))
		q.v0, q.v1 = min(q.v0, local(v, va)), max(q.v1, local(v, va))
	}
	for i, v := range p {
		c := corner{}
		if local(v, ua) == q.u1 {
			c.u = 1
		}
		if local(v, va) == q.v1 {
			c.v = 1
		}
		level := uint8(math.Round(float64(ao[i] * 3)))
		q.ao |= FaceAo(level << cornerAO(c))
	}
	return q
}

func (q decodedQuad) cells() []cellKey {
	axis := q.side.Axis()
	ua, va := q.side.PlaneAxes()
	var out []cellKey
	for u := q.u0; u < q.u1; u++ {
		for v := q.v0; v < q.v1; v++ {
			var c [3]int
			c[axis], c[ua], c[va] = q.layer, u, v
			out = append(out, cellKey{q.side, c[0], c[1], c[2]})
		}
	}
	return out
}

func terrainQuads(m *Meshes) []decodedQuad {
	var out []decodedQuad
	vs := m.Terrain.Vertices
	for i := 0; i+3 < len(vs); i += 4 {
		p := [4]mgl32.Vec3{vs[i].Pos, vs[i+1].Pos, vs[i+2].Pos, vs[i+3].Pos}
		ao := [4]float32{vs[i].AO, vs[i+1].AO, vs[i+2].AO, vs[i+3].AO}
		out = append(out, decodeQuad(m.Pos, p, vs[i].Normal, vs[i].TexID, ao))
	}
	return out
}

func liquidQuads(m *Meshes) []decodedQuad {
	var out []decodedQuad
	vs := m.Liquid.Vertices
	for i := 0; i+3 < len(vs); i += 4 {
		p := [4]mgl32.Vec3{vs[i].Pos, vs[i+1].Pos, vs[i+2].Pos, vs[i+3].Pos}
		out = append(out, decodeQuad(m.Pos, p, vs[i].Normal, vs[i].TexID, [4]float32{}))
	}
	return out
}
