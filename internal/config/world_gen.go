package config

// Generator names accepted in WorldGenConfig.Generator.
const (
	GeneratorNoise = "noise"
	GeneratorFlat  = "flat"
)

// WorldGenConfig holds world generation settings for the demo region.
type WorldGenConfig struct {
	Generator  string `yaml:"generator"`
	Seed       int64  `yaml:"seed"`
	Radius     int    `yaml:"radius"` // in chunks around the origin
	SeaLevel   int    `yaml:"sea_level"`
	FlatHeight int    `yaml:"flat_height"`
}

func (w *WorldGenConfig) normalize() {
	if w.Generator != GeneratorFlat {
		w.Generator = GeneratorNoise
	}
	// Clamp to reasonable values
	w.Radius = clamp(w.Radius, 0, 16)
}
