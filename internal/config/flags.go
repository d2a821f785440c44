package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	ConfigPath string
	Debug      bool
	Workers    int
	Radius     int
	Seed       int64
	Metrics    string
	OBJ        string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Workers, "workers", 0, "Mesh worker goroutines")
	fs.IntVar(&f.Radius, "radius", -1, "Chunk radius to generate around the origin")
	fs.Int64Var(&f.Seed, "seed", 0, "World seed")
	fs.StringVar(&f.Metrics, "metrics", "", "Address to serve Prometheus metrics on")
	fs.StringVar(&f.OBJ, "obj", "", "Write the meshed region as OBJ to this path")
	return f
}

// Apply copies the set overrides into cfg and re-normalizes it.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Workers > 0 {
		cfg.Mesher.Workers = f.Workers
	}
	if f.Radius >= 0 {
		cfg.World.Radius = f.Radius
	}
	if f.Seed != 0 {
		cfg.World.Seed = f.Seed
	}
	if f.Metrics != "" {
		cfg.Metrics.Addr = f.Metrics
	}
	if f.OBJ != "" {
		cfg.Export.OBJPath = f.OBJ
	}
	cfg.Normalize()
}
