package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavilPergis/Rustel/internal/world"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, 9, r.Len())

	stone := r.MustLookup("stone")
	assert.True(t, r.Opaque(stone))
	assert.False(t, r.Liquid(stone))

	water := r.MustLookup("water")
	assert.True(t, r.Liquid(water))
	assert.False(t, r.Opaque(water))

	glass := r.MustLookup("glass")
	assert.False(t, r.Opaque(glass))
	assert.False(t, r.Liquid(glass))

	assert.False(t, r.Opaque(world.Air))
	assert.False(t, r.Opaque(world.BlockID(999)), "unknown ids are not opaque")
	assert.False(t, r.Liquid(world.BlockID(999)))
}

func TestTextureResolution(t *testing.T) {
	r := Default()
	grass := r.MustLookup("grass")
	dirt := r.MustLookup("dirt")
	furnace := r.MustLookup("furnace")

	top, ok := r.BlockTexture(grass, world.Top)
	require.True(t, ok)
	bottom, _ := r.BlockTexture(grass, world.Bottom)
	side, _ := r.BlockTexture(grass, world.Left)
	dirtAll, _ := r.BlockTexture(dirt, world.Front)

	assert.NotEqual(t, top, side)
	assert.Equal(t, dirtAll, bottom, "shared texture names share one atlas layer")
	assert.Equal(t, "grass_top.png", r.TextureNames[top])

	front, _ := r.BlockTexture(furnace, world.Front)
	back, _ := r.BlockTexture(furnace, world.Back)
	ftop, _ := r.BlockTexture(furnace, world.Top)
	fbottom, _ := r.BlockTexture(furnace, world.Bottom)
	assert.Equal(t, "furnace_front.png", r.TextureNames[front])
	assert.Equal(t, "furnace_side.png", r.TextureNames[back])
	assert.Equal(t, "furnace_top.png", r.TextureNames[ftop])
	assert.Equal(t, "furnace_side.png", r.TextureNames[fbottom], "falls back to the catch-all texture")

	_, ok = r.BlockTexture(world.Air, world.Top)
	assert.False(t, ok)
	_, ok = r.BlockTexture(world.BlockID(500), world.Top)
	assert.False(t, ok)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing air", "blocks:\n  - {id: 1, name: stone, opaque: true}\n"},
		{"opaque air", "blocks:\n  - {id: 0, name: air, opaque: true}\n"},
		{"duplicate id", "blocks:\n  - {id: 0, name: air}\n  - {id: 0, name: void}\n"},
		{"duplicate name", "blocks:\n  - {id: 0, name: air}\n  - {id: 1, name: air}\n"},
		{"opaque liquid", "blocks:\n  - {id: 0, name: air}\n  - {id: 1, name: mud, opaque: true, liquid: true}\n"},
		{"unnamed", "blocks:\n  - {id: 0, name: air}\n  - {id: 1}\n"},
		{"bad side", "blocks:\n  - {id: 0, name: air}\n  - {id: 1, name: x, sides: {up: a.png}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidRegistry)
		})
	}

	_, err := Parse([]byte("blocks: [oops"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks:\n  - {id: 0, name: air}\n  - {id: 3, name: ore, opaque: true, texture: ore.png}\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	ore, ok := r.Lookup("ore")
	require.True(t, ok)
	assert.Equal(t, world.BlockID(3), ore)
	tex, ok := r.BlockTexture(ore, world.Back)
	require.True(t, ok)
	assert.Equal(t, int32(0), tex)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = r.Palette()
	assert.Error(t, err, "palette needs the terrain roles")
}

func TestPalette(t *testing.T) {
	p, err := Default().Palette()
	require.NoError(t, err)
	assert.Equal(t, world.BlockID(1), p.Stone)
	assert.Equal(t, world.BlockID(5), p.Water)
}
