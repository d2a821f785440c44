// Package config loads the mesher's settings.
package config

import "time"

// Config holds all mesher settings.
type Config struct {
	Mesher   MesherConfig   `yaml:"mesher"`
	World    WorldGenConfig `yaml:"world"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Export   ExportConfig   `yaml:"export"`
	Registry string         `yaml:"registry"` // block definitions file; empty uses the built-in set
}

// MesherConfig holds worker pool and scheduling settings.
type MesherConfig struct {
	Workers      int           `yaml:"workers"`
	QueueSize    int           `yaml:"queue_size"`
	Batch        int           `yaml:"batch"`
	PumpInterval time.Duration `yaml:"pump_interval"`
	RandomUV     bool          `yaml:"random_uv"`
	Seed         uint64        `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

// ExportConfig controls the OBJ dump written after meshing.
type ExportConfig struct {
	OBJPath  string `yaml:"obj_path"`
	Compress bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesher: MesherConfig{
			Workers:      4,
			QueueSize:    256,
			Batch:        64,
			PumpInterval: 10 * time.Millisecond,
			RandomUV:     true,
			Seed:         1,
		},
		World: WorldGenConfig{
			Generator:  GeneratorNoise,
			Seed:       1337,
			Radius:     2,
			SeaLevel:   10,
			FlatHeight: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Normalize clamps settings to the ranges the mesher supports.
func (c *Config) Normalize() {
	c.Mesher.Workers = clamp(c.Mesher.Workers, 1, 64)
	c.Mesher.QueueSize = max(c.Mesher.QueueSize, 1)
	c.Mesher.Batch = max(c.Mesher.Batch, 1)
	if c.Mesher.PumpInterval <= 0 {
		c.Mesher.PumpInterval = 10 * time.Millisecond
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.World.normalize()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
