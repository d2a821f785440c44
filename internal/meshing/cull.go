package meshing

import (
	"github.com/XavilPergis/Rustel/internal/world"
)

// CullMesh builds an unmerged mesh straight from a neighbourhood: one unit
// quad per opaque face that touches a non-opaque block. Faces toward an
// unloaded neighbour are skipped, as is liquid. There is no AO.
//
// It is much slower to draw than a greedy mesh and is kept as a reference
// for tests and debugging.
func CullMesh(reg BlockRegistry, n world.Neighborhood) (*Meshes, error) {
	out := &Meshes{Pos: n.Pos}
	if n.Center == nil {
		return out, nil
	}

	bx, by, bz := n.Pos.Base()
	b := quadBuilder{reg: reg, base: [3]float32{float32(bx), float32(by), float32(bz)}}

	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				id := n.Center.Get(x, y, z)
				if !reg.Opaque(id) {
					continue
				}
				for _, side := range world.AllSides {
					d := side.Normal()
					other, ok := n.Get(x+d[0], y+d[1], z+d[2])
					if !ok || reg.Opaque(other) {
						continue
					}
					q := quad{side: side, origin: [3]int{x, y, z}, width: 1, height: 1, id: id, ao: FullLight}
					if err := b.appendTerrain(&out.Terrain, q, false); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return out, nil
}
