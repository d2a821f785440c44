package meshing

import "github.com/XavilPergis/Rustel/internal/world"

// FaceAo packs four 2-bit corner shade levels of a face. 3 is fully lit and
// 0 is fully occluded.
type FaceAo uint8

// Bit offsets of each corner, named by the sign of the corner along the
// face's u and v axes.
const (
	AONegPos uint8 = 0
	AONegNeg uint8 = 2
	AOPosNeg uint8 = 4
	AOPosPos uint8 = 6
)

// FullLight is a face with no occlusion on any corner.
const FullLight FaceAo = 0xFF

// Corner returns the shade level stored at the given bit offset.
func (a FaceAo) Corner(bits uint8) uint8 {
	return (uint8(a) >> bits) & 3
}

// Scalar returns a corner's shade level mapped to [0, 1].
func (a FaceAo) Scalar(bits uint8) float32 {
	return float32(a.Corner(bits)) / 3
}

// aoValue combines the two edge samples and the diagonal sample of a corner.
// Two solid edges occlude the corner fully whatever the diagonal holds.
func aoValue(side1, corner, side2 bool) uint8 {
	if side1 && side2 {
		return 0
	}
	return 3 - (b2u(side1) + b2u(side2) + b2u(corner))
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Sample slots around a face, in the plane one step along its normal.
const (
	sampleNegNeg = iota
	sampleNegCen
	sampleNegPos
	samplePosNeg
	samplePosCen
	samplePosPos
	sampleCenNeg
	sampleCenPos
)

// aoOffsets holds the eight sample offsets of every side.
var aoOffsets = func() (t [6][8][3]int) {
	for _, s := range world.AllSides {
		t[s] = [8][3]int{
			sampleNegNeg: s.UVLToXYZ(-1, -1, 1),
			sampleNegCen: s.UVLToXYZ(-1, 0, 1),
			sampleNegPos: s.UVLToXYZ(-1, 1, 1),
			samplePosNeg: s.UVLToXYZ(1, -1, 1),
			samplePosCen: s.UVLToXYZ(1, 0, 1),
			samplePosPos: s.UVLToXYZ(1, 1, 1),
			sampleCenNeg: s.UVLToXYZ(0, -1, 1),
			sampleCenPos: s.UVLToXYZ(0, 1, 1),
		}
	}
	return t
}()

// faceAo computes the corner shading of the face of (x, y, z) on side.
// Liquid faces are never shaded.
func faceAo(reg BlockRegistry, p *PaddedChunk, x, y, z int, side world.Side) FaceAo {
	if reg.Liquid(p.At(x, y, z)) {
		return 0
	}

	var opaque [8]bool
	for i, o := range aoOffsets[side] {
		opaque[i] = reg.Opaque(p.At(x+o[0], y+o[1], z+o[2]))
	}

	pp := aoValue(opaque[sampleCenPos], opaque[samplePosPos], opaque[samplePosCen])
	pn := aoValue(opaque[samplePosCen], opaque[samplePosNeg], opaque[sampleCenNeg])
	nn := aoValue(opaque[sampleCenNeg], opaque[sampleNegNeg], opaque[sampleNegCen])
	np := aoValue(opaque[sampleNegCen], opaque[sampleNegPos], opaque[sampleCenPos])

	return FaceAo(pp<<AOPosPos | pn<<AOPosNeg | nn<<AONegNeg | np<<AONegPos)
}
