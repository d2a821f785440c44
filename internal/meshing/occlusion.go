package meshing

import "github.com/XavilPergis/Rustel/internal/world"

// BlockRegistry is the read-only block query surface the mesher needs.
type BlockRegistry interface {
	Opaque(id world.BlockID) bool
	Liquid(id world.BlockID) bool
	BlockTexture(id world.BlockID, side world.Side) (int32, bool)
}

// faceVisible decides whether the cell at (x, y, z) needs a face toward the
// neighbour at offset n.
//
// Liquid only faces cells that are neither opaque nor liquid, so touching
// liquid cells never produce internal faces. An opaque cell faces anything
// non-opaque, and faces liquid too, since liquid is drawn as a separate
// translucent surface. Everything else emits nothing.
func faceVisible(reg BlockRegistry, p *PaddedChunk, x, y, z int, n [3]int) bool {
	cur := p.At(x, y, z)
	other := p.At(x+n[0], y+n[1], z+n[2])

	if reg.Liquid(cur) {
		return !reg.Opaque(other) && !reg.Liquid(other)
	}
	return reg.Opaque(cur) && (!reg.Opaque(other) || reg.Liquid(other))
}
