package meshing

import (
	"encoding/binary"
	"math"

	"github.com/XavilPergis/Rustel/internal/world"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// FrontFaceClockwise reports the winding of emitted triangles as seen from
// outside the solid they bound. Renderers should cull the other winding.
const FrontFaceClockwise = true

// Vertex strides in bytes as written by Bytes.
const (
	TerrainVertexStride = 40 // pos.xyz, normal.xyz, uv, tex, ao
	LiquidVertexStride  = 36 // pos.xyz, normal.xyz, uv, tex
)

// TerrainVertex is one corner of an opaque quad.
type TerrainVertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	UV     mgl32.Vec2
	TexID  int32
	AO     float32
}

// LiquidVertex is one corner of a liquid surface quad.
type LiquidVertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	UV     mgl32.Vec2
	TexID  int32
}

// TerrainBuffer holds indexed opaque geometry.
type TerrainBuffer struct {
	Vertices []TerrainVertex
	Indices  []uint32
}

// LiquidBuffer holds indexed liquid geometry.
type LiquidBuffer struct {
	Vertices []LiquidVertex
	Indices  []uint32
}

func (b *TerrainBuffer) reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

func (b *LiquidBuffer) reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

// Quads returns the number of quads in the buffer.
func (b *TerrainBuffer) Quads() int { return len(b.Vertices) / 4 }

// Quads returns the number of quads in the buffer.
func (b *LiquidBuffer) Quads() int { return len(b.Vertices) / 4 }

func appendVec(dst []byte, v ...float32) []byte {
	for _, f := range v {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// Bytes packs the vertices little-endian with TerrainVertexStride bytes each.
func (b *TerrainBuffer) Bytes() []byte {
	out := make([]byte, 0, len(b.Vertices)*TerrainVertexStride)
	for _, v := range b.Vertices {
		out = appendVec(out, v.Pos[0], v.Pos[1], v.Pos[2], v.Normal[0], v.Normal[1], v.Normal[2], v.UV[0], v.UV[1])
		out = binary.LittleEndian.AppendUint32(out, uint32(v.TexID))
		out = appendVec(out, v.AO)
	}
	return out
}

// Bytes packs the vertices little-endian with LiquidVertexStride bytes each.
func (b *LiquidBuffer) Bytes() []byte {
	out := make([]byte, 0, len(b.Vertices)*LiquidVertexStride)
	for _, v := range b.Vertices {
		out = appendVec(out, v.Pos[0], v.Pos[1], v.Pos[2], v.Normal[0], v.Normal[1], v.Normal[2], v.UV[0], v.UV[1])
		out = binary.LittleEndian.AppendUint32(out, uint32(v.TexID))
	}
	return out
}

// IndexBytes packs indices as little-endian uint32.
func IndexBytes(indices []uint32) []byte {
	out := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out
}

// Meshes is the result of meshing one chunk. The mesher hands out a fresh
// value per pass; it never aliases the mesher's scratch space.
type Meshes struct {
	Pos     world.ChunkPos
	Terrain TerrainBuffer
	Liquid  LiquidBuffer
}

// Empty reports whether neither buffer holds geometry.
func (m *Meshes) Empty() bool {
	return len(m.Terrain.Vertices) == 0 && len(m.Liquid.Vertices) == 0
}

// QuadCount returns the total number of quads across both buffers.
func (m *Meshes) QuadCount() int {
	return m.Terrain.Quads() + m.Liquid.Quads()
}

// Checksum hashes the packed vertex and index data of both buffers.
// Identical geometry always hashes the same.
func (m *Meshes) Checksum() uint64 {
	d := xxhash.New()
	_, _ = d.Write(m.Terrain.Bytes())
	_, _ = d.Write(IndexBytes(m.Terrain.Indices))
	_, _ = d.Write([]byte{0xff})
	_, _ = d.Write(m.Liquid.Bytes())
	_, _ = d.Write(IndexBytes(m.Liquid.Indices))
	return d.Sum64()
}

func (m *Meshes) clone() *Meshes {
	out := &Meshes{Pos: m.Pos}
	out.Terrain.Vertices = append([]TerrainVertex(nil), m.Terrain.Vertices...)
	out.Terrain.Indices = append([]uint32(nil), m.Terrain.Indices...)
	out.Liquid.Vertices = append([]LiquidVertex(nil), m.Liquid.Vertices...)
	out.Liquid.Indices = append([]uint32(nil), m.Liquid.Indices...)
	return out
}
