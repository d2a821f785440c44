// Package export writes meshes as Wavefront OBJ for inspection in external
// tools.
package export

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/XavilPergis/Rustel/internal/meshing"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

// Stats summarizes what was written.
type Stats struct {
	Objects   int
	Vertices  int
	Triangles int
}

type objWriter struct {
	w     *bufio.Writer
	buf   []byte
	next  int // OBJ indices are 1-based and global
	stats Stats
}

func (o *objWriter) line(prefix string, vals ...float32) {
	o.buf = append(o.buf[:0], prefix...)
	for _, v := range vals {
		o.buf = append(o.buf, ' ')
		o.buf = strconv.AppendFloat(o.buf, float64(v), 'g', -1, 32)
	}
	o.buf = append(o.buf, '\n')
	_, _ = o.w.Write(o.buf)
}

func (o *objWriter) vertex(pos, normal mgl32.Vec3, uv mgl32.Vec2) {
	o.line("v", pos[0], pos[1], pos[2])
	o.line("vt", uv[0], uv[1])
	o.line("vn", normal[0], normal[1], normal[2])
	o.stats.Vertices++
}

// faces writes triangles for indices relative to base. Meshes wind clockwise;
// OBJ front faces are counter-clockwise, so each triangle is reversed.
func (o *objWriter) faces(indices []uint32, texOf func(i uint32) int32, base int) {
	lastTex := int32(-1)
	for i := 0; i+2 < len(indices); i += 3 {
		if tex := texOf(indices[i]); tex != lastTex {
			fmt.Fprintf(o.w, "usemtl tex_%d\n", tex)
			lastTex = tex
		}
		a, b, c := base+int(indices[i]), base+int(indices[i+2]), base+int(indices[i+1])
		fmt.Fprintf(o.w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		o.stats.Triangles++
	}
}

func (o *objWriter) chunk(m *meshing.Meshes) {
	if m.Empty() {
		return
	}
	fmt.Fprintf(o.w, "o chunk_%d_%d_%d\n", m.Pos.X, m.Pos.Y, m.Pos.Z)
	o.stats.Objects++

	if len(m.Terrain.Vertices) > 0 {
		fmt.Fprintln(o.w, "g terrain")
		base := o.next
		for _, v := range m.Terrain.Vertices {
			o.vertex(v.Pos, v.Normal, v.UV)
		}
		o.faces(m.Terrain.Indices, func(i uint32) int32 { return m.Terrain.Vertices[i].TexID }, base)
		o.next += len(m.Terrain.Vertices)
	}
	if len(m.Liquid.Vertices) > 0 {
		fmt.Fprintln(o.w, "g liquid")
		base := o.next
		for _, v := range m.Liquid.Vertices {
			o.vertex(v.Pos, v.Normal, v.UV)
		}
		o.faces(m.Liquid.Indices, func(i uint32) int32 { return m.Liquid.Vertices[i].TexID }, base)
		o.next += len(m.Liquid.Vertices)
	}
}

// WriteOBJ writes meshes to w in chunk position order. Empty meshes are
// skipped.
func WriteOBJ(w io.Writer, meshes []*meshing.Meshes) (Stats, error) {
	sorted := slices.Clone(meshes)
	slices.SortFunc(sorted, func(a, b *meshing.Meshes) int {
		return cmp.Or(cmp.Compare(a.Pos.X, b.Pos.X), cmp.Compare(a.Pos.Y, b.Pos.Y), cmp.Compare(a.Pos.Z, b.Pos.Z))
	})

	o := &objWriter{w: bufio.NewWriterSize(w, 256*1024), next: 1}
	fmt.Fprintln(o.w, "# chunk meshes")
	for _, m := range sorted {
		o.chunk(m)
	}
	if err := o.w.Flush(); err != nil {
		return o.stats, fmt.Errorf("writing obj: %w", err)
	}
	return o.stats, nil
}

// WriteFile writes meshes to path, zstd-compressed when compress is set.
func WriteFile(path string, meshes []*meshing.Meshes, compress bool) (Stats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stats{}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	if !compress {
		stats, err := WriteOBJ(f, meshes)
		if err != nil {
			return stats, err
		}
		return stats, f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return Stats{}, err
	}
	stats, err := WriteOBJ(enc, meshes)
	if err != nil {
		enc.Close()
		return stats, err
	}
	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("closing zstd stream: %w", err)
	}
	return stats, f.Close()
}

// Open returns a reader over an OBJ file written by WriteFile, decompressing
// it when compressed is set.
func Open(path string, compressed bool) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !compressed {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFile{dec: dec, f: f}, nil
}

type zstdFile struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdFile) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdFile) Close() error {
	z.dec.Close()
	return z.f.Close()
}
