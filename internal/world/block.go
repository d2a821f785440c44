package world

// BlockID identifies a voxel type. The zero value is air.
type BlockID uint16

// Air is the empty block.
const Air BlockID = 0

// Side identifies one of the six faces of a voxel.
type Side int

const (
	Top    Side = iota // +Y
	Bottom             // -Y
	Left               // -X
	Right              // +X
	Front              // +Z
	Back               // -Z
)

// AllSides lists the sides in the order the mesher sweeps them.
var AllSides = [6]Side{Right, Left, Top, Bottom, Front, Back}

// Axis indices used by Side.Axis and the in-plane axis helpers.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

var sideNames = [6]string{"top", "bottom", "left", "right", "front", "back"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "unknown"
	}
	return sideNames[s]
}

// ParseSide converts a lowercase side name back into a Side.
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return 0, false
}

// Axis returns the axis the side's normal lies on.
func (s Side) Axis() int {
	switch s {
	case Left, Right:
		return AxisX
	case Top, Bottom:
		return AxisY
	default:
		return AxisZ
	}
}

// FacingPositive reports whether the normal points along the positive axis.
func (s Side) FacingPositive() bool {
	return s == Top || s == Right || s == Front
}

// Opposite returns the side facing the other way on the same axis.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	case Front:
		return Back
	default:
		return Front
	}
}

// Normal returns the outward unit vector of the side.
func (s Side) Normal() [3]int {
	var n [3]int
	if s.FacingPositive() {
		n[s.Axis()] = 1
	} else {
		n[s.Axis()] = -1
	}
	return n
}

// PlaneAxes returns the two in-plane axes (u, v) of a face on this side.
// Left/Right: u=Y v=Z. Top/Bottom: u=X v=Z. Front/Back: u=X v=Y.
func (s Side) PlaneAxes() (u, v int) {
	switch s.Axis() {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// UVLToXYZ maps an offset expressed along the side's u and v axes and along
// its outward normal (l) into an xyz offset.
func (s Side) UVLToXYZ(u, v, l int) [3]int {
	var out [3]int
	ua, va := s.PlaneAxes()
	out[ua] = u
	out[va] = v
	if s.FacingPositive() {
		out[s.Axis()] = l
	} else {
		out[s.Axis()] = -l
	}
	return out
}
