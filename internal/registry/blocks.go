// Package registry holds the block type definitions the mesher queries:
// opacity, liquid flags and per-side texture atlas layers.
package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XavilPergis/Rustel/internal/world"
)

//go:embed default_blocks.yaml
var defaultBlocks []byte

// ErrInvalidRegistry is wrapped by every validation failure.
var ErrInvalidRegistry = errors.New("registry: invalid block definitions")

// BlockDefinition defines the properties of a block type.
type BlockDefinition struct {
	ID     world.BlockID `yaml:"id"`
	Name   string        `yaml:"name"`
	Opaque bool          `yaml:"opaque"`
	Liquid bool          `yaml:"liquid"`

	// Texture names. Resolution per side: Sides[side], then Top/Bottom/Side
	// for the matching group, then All.
	TextureAll  string            `yaml:"texture"`
	TextureTop  string            `yaml:"texture_top"`
	TextureBot  string            `yaml:"texture_bottom"`
	TextureSide string            `yaml:"texture_side"`
	Sides       map[string]string `yaml:"sides"`
}

type file struct {
	Blocks []BlockDefinition `yaml:"blocks"`
}

type entry struct {
	def      BlockDefinition
	textures [6]int32
	hasTex   [6]bool
}

// Registry is an immutable set of block definitions indexed by id.
type Registry struct {
	entries      []*entry // indexed by BlockID; nil for unused ids
	names        map[string]world.BlockID
	TextureNames []string
	textureMap   map[string]int32
}

// Default returns the built-in block set.
func Default() *Registry {
	r, err := Parse(defaultBlocks)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in blocks are invalid: %v", err))
	}
	return r
}

// Load reads a YAML block list from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading block registry %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading block registry %s: %w", path, err)
	}
	return r, nil
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing block registry: %w", err)
	}
	return New(f.Blocks)
}

// New builds a registry from definitions. Id 0 must be a non-opaque,
// non-liquid block ("air").
func New(defs []BlockDefinition) (*Registry, error) {
	r := &Registry{
		names:      make(map[string]world.BlockID),
		textureMap: make(map[string]int32),
	}
	for _, def := range defs {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	if air := r.entry(world.Air); air == nil || air.def.Opaque || air.def.Liquid {
		return nil, fmt.Errorf("%w: id 0 must be defined as an empty block", ErrInvalidRegistry)
	}
	return r, nil
}

func (r *Registry) register(def BlockDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: block %d has no name", ErrInvalidRegistry, def.ID)
	}
	if def.Opaque && def.Liquid {
		return fmt.Errorf("%w: block %q cannot be both opaque and liquid", ErrInvalidRegistry, def.Name)
	}
	if _, dup := r.names[def.Name]; dup {
		return fmt.Errorf("%w: duplicate block name %q", ErrInvalidRegistry, def.Name)
	}
	if r.entry(def.ID) != nil {
		return fmt.Errorf("%w: duplicate block id %d (%q)", ErrInvalidRegistry, def.ID, def.Name)
	}
	for name := range def.Sides {
		if _, ok := world.ParseSide(name); !ok {
			return fmt.Errorf("%w: block %q names unknown side %q", ErrInvalidRegistry, def.Name, name)
		}
	}

	e := &entry{def: def}
	for _, side := range world.AllSides {
		name := resolveTextureName(def, side)
		if name == "" {
			continue
		}
		e.textures[side] = r.registerTexture(name)
		e.hasTex[side] = true
	}

	for int(def.ID) >= len(r.entries) {
		r.entries = append(r.entries, nil)
	}
	r.entries[def.ID] = e
	r.names[def.Name] = def.ID
	return nil
}

func resolveTextureName(def BlockDefinition, side world.Side) string {
	if name, ok := def.Sides[side.String()]; ok && name != "" {
		return name
	}
	var group string
	switch side {
	case world.Top:
		group = def.TextureTop
	case world.Bottom:
		group = def.TextureBot
	default:
		group = def.TextureSide
	}
	if group != "" {
		return group
	}
	return def.TextureAll
}

func (r *Registry) registerTexture(name string) int32 {
	if idx, exists := r.textureMap[name]; exists {
		return idx
	}
	idx := int32(len(r.TextureNames))
	r.textureMap[name] = idx
	r.TextureNames = append(r.TextureNames, name)
	return idx
}

func (r *Registry) entry(id world.BlockID) *entry {
	if int(id) >= len(r.entries) {
		return nil
	}
	return r.entries[id]
}

// Opaque reports whether the block fully hides faces behind it. Unknown ids
// are not opaque.
func (r *Registry) Opaque(id world.BlockID) bool {
	e := r.entry(id)
	return e != nil && e.def.Opaque
}

// Liquid reports whether the block is rendered as a liquid surface.
func (r *Registry) Liquid(id world.BlockID) bool {
	e := r.entry(id)
	return e != nil && e.def.Liquid
}

// BlockTexture returns the atlas layer of a block's side.
func (r *Registry) BlockTexture(id world.BlockID, side world.Side) (int32, bool) {
	e := r.entry(id)
	if e == nil || side < 0 || int(side) >= len(e.textures) {
		return 0, false
	}
	return e.textures[side], e.hasTex[side]
}

// Lookup returns the id registered under name.
func (r *Registry) Lookup(name string) (world.BlockID, bool) {
	id, ok := r.names[name]
	return id, ok
}

// MustLookup is Lookup for names known to exist; it panics otherwise.
func (r *Registry) MustLookup(name string) world.BlockID {
	id, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry: unknown block %q", name))
	}
	return id
}

// Definition returns the definition of id.
func (r *Registry) Definition(id world.BlockID) (BlockDefinition, bool) {
	e := r.entry(id)
	if e == nil {
		return BlockDefinition{}, false
	}
	return e.def, true
}

// Len returns the number of registered blocks.
func (r *Registry) Len() int {
	return len(r.names)
}

// Palette maps the generator's block roles onto registered names.
func (r *Registry) Palette() (world.Palette, error) {
	var p world.Palette
	roles := []struct {
		name string
		dst  *world.BlockID
	}{
		{"stone", &p.Stone},
		{"dirt", &p.Dirt},
		{"grass", &p.Grass},
		{"sand", &p.Sand},
		{"water", &p.Water},
	}
	for _, role := range roles {
		id, ok := r.Lookup(role.name)
		if !ok {
			return p, fmt.Errorf("registry has no %q block for terrain generation", role.name)
		}
		*role.dst = id
	}
	return p, nil
}
