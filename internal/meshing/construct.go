package meshing

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/XavilPergis/Rustel/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingTexture is wrapped by TextureError.
var ErrMissingTexture = errors.New("meshing: block has no texture")

// TextureError reports a visible block whose side has no texture. It signals
// a registry configuration problem rather than anything transient.
type TextureError struct {
	ID   world.BlockID
	Side world.Side
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("meshing: block %d has no texture for side %s", e.ID, e.Side)
}

func (e *TextureError) Unwrap() error { return ErrMissingTexture }

// quad is one merged rectangle of equal faces on a slice.
type quad struct {
	side   world.Side
	origin [3]int // chunk-local cell of the (0, 0) corner
	width  int    // along u
	height int    // along v
	id     world.BlockID
	ao     FaceAo
}

// corner is a quad corner as (u, v) in {0, 1}².
type corner struct{ u, v int }

// Vertex corner layouts. Sides on the X axis use a transposed layout.
var (
	xAxisCorners = [4]corner{{1, 0}, {1, 1}, {0, 0}, {0, 1}}
	planeCorners = [4]corner{{0, 1}, {1, 1}, {0, 0}, {1, 0}}
)

// Index orders for the two diagonal splits of a quad, per winding.
var (
	indicesNormalCW   = [6]uint32{3, 2, 0, 0, 1, 3}
	indicesNormalCCW  = [6]uint32{0, 2, 3, 3, 1, 0}
	indicesFlippedCW  = [6]uint32{0, 1, 2, 3, 2, 1}
	indicesFlippedCCW = [6]uint32{2, 1, 0, 1, 2, 3}
)

// sideClockwise picks the index table per side so that every side ends up
// with the same outside winding once its corner layout is applied.
var sideClockwise = [6]bool{
	world.Top:    false,
	world.Bottom: true,
	world.Left:   true,
	world.Right:  false,
	world.Front:  true,
	world.Back:   false,
}

// uvVariants are the four texture orientations, per vertex.
var uvVariants = [4][4]mgl32.Vec2{
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
	{{1, 1}, {0, 1}, {1, 0}, {0, 0}},
	{{0, 1}, {0, 0}, {1, 1}, {1, 0}},
}

func corners(side world.Side) *[4]corner {
	if side.Axis() == world.AxisX {
		return &xAxisCorners
	}
	return &planeCorners
}

// cornerAO returns the bit offset of the AO level feeding corner c.
func cornerAO(c corner) uint8 {
	switch {
	case c.u == 0 && c.v == 1:
		return AONegPos
	case c.u == 0 && c.v == 0:
		return AONegNeg
	case c.u == 1 && c.v == 0:
		return AOPosNeg
	default:
		return AOPosPos
	}
}

// quadIndices picks the index order for a quad. The split runs along the
// NegNeg/PosPos diagonal when that pair sums brighter than the other one.
func quadIndices(side world.Side, ao FaceAo) *[6]uint32 {
	pp, nn := ao.Corner(AOPosPos), ao.Corner(AONegNeg)
	pn, np := ao.Corner(AOPosNeg), ao.Corner(AONegPos)
	flipped := uint(pp)+uint(nn) > uint(pn)+uint(np)
	cw := sideClockwise[side]
	switch {
	case flipped && cw:
		return &indicesFlippedCW
	case flipped:
		return &indicesFlippedCCW
	case cw:
		return &indicesNormalCW
	default:
		return &indicesNormalCCW
	}
}

// quadBuilder turns quads into vertices. It is owned by one Mesher.
type quadBuilder struct {
	reg  BlockRegistry
	rand *rand.Rand
	base [3]float32
}

// positions returns the world-space corners of q in vertex order.
func (b *quadBuilder) positions(q quad) (pos [4]mgl32.Vec3, normal mgl32.Vec3) {
	axis := q.side.Axis()
	ua, va := q.side.PlaneAxes()
	n := q.side.Normal()
	normal = mgl32.Vec3{float32(n[0]), float32(n[1]), float32(n[2])}
	for i, c := range corners(q.side) {
		p := q.origin
		if q.side.FacingPositive() {
			p[axis]++
		}
		p[ua] += c.u * q.width
		p[va] += c.v * q.height
		pos[i] = mgl32.Vec3{
			b.base[0] + float32(p[0]),
			b.base[1] + float32(p[1]),
			b.base[2] + float32(p[2]),
		}
	}
	return pos, normal
}

func (b *quadBuilder) uvs(q quad, variant int) [4]mgl32.Vec2 {
	su, sv := float32(q.width), float32(q.height)
	if q.side.Axis() == world.AxisX {
		su, sv = sv, su
	}
	var out [4]mgl32.Vec2
	for i, uv := range uvVariants[variant] {
		out[i] = mgl32.Vec2{uv[0] * su, uv[1] * sv}
	}
	return out
}

func (b *quadBuilder) texture(q quad) (int32, error) {
	tex, ok := b.reg.BlockTexture(q.id, q.side)
	if !ok {
		return 0, &TextureError{ID: q.id, Side: q.side}
	}
	return tex, nil
}

// appendTerrain emits an opaque quad with AO and, when random is set, a
// randomly chosen texture orientation.
func (b *quadBuilder) appendTerrain(buf *TerrainBuffer, q quad, random bool) error {
	tex, err := b.texture(q)
	if err != nil {
		return err
	}
	variant := 0
	if random && b.rand != nil {
		variant = b.rand.IntN(len(uvVariants))
	}
	pos, normal := b.positions(q)
	uvs := b.uvs(q, variant)
	cs := corners(q.side)

	start := uint32(len(buf.Vertices))
	for i := range 4 {
		buf.Vertices = append(buf.Vertices, TerrainVertex{
			Pos:    pos[i],
			Normal: normal,
			UV:     uvs[i],
			TexID:  tex,
			AO:     q.ao.Scalar(cornerAO(cs[i])),
		})
	}
	for _, idx := range quadIndices(q.side, q.ao) {
		buf.Indices = append(buf.Indices, start+idx)
	}
	return nil
}

// appendLiquid emits a liquid quad. Liquid has no AO and a fixed orientation.
func (b *quadBuilder) appendLiquid(buf *LiquidBuffer, q quad) error {
	tex, err := b.texture(q)
	if err != nil {
		return err
	}
	pos, normal := b.positions(q)
	uvs := b.uvs(q, 0)

	start := uint32(len(buf.Vertices))
	for i := range 4 {
		buf.Vertices = append(buf.Vertices, LiquidVertex{
			Pos:    pos[i],
			Normal: normal,
			UV:     uvs[i],
			TexID:  tex,
		})
	}
	for _, idx := range quadIndices(q.side, 0) {
		buf.Indices = append(buf.Indices, start+idx)
	}
	return nil
}
