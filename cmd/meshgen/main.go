// Command meshgen generates a region of terrain, meshes it through the worker
// pool and reports what it built.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/XavilPergis/Rustel/internal/config"
	"github.com/XavilPergis/Rustel/internal/export"
	"github.com/XavilPergis/Rustel/internal/logger"
	"github.com/XavilPergis/Rustel/internal/meshing"
	"github.com/XavilPergis/Rustel/internal/profiling"
	"github.com/XavilPergis/Rustel/internal/registry"
	"github.com/XavilPergis/Rustel/internal/world"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flags.Apply(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Named("meshgen")

	app, err := setup(cfg)
	if err != nil {
		log.Error("setup failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(func() {
		cancel()
		app.close()
		logger.Sync()
	})

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(app.prom, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		if err := app.run(gctx, cfg, log); err != nil {
			return err
		}
		if cfg.Metrics.Addr != "" {
			log.Info("done; metrics stay up until interrupted")
			<-gctx.Done()
			return nil
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("meshgen failed", zap.Error(err))
		closer.Exit(1)
	}
	closer.Close()
}

type app struct {
	reg      *registry.Registry
	store    *world.ChunkStore
	streamer *world.ChunkStreamer
	pool     *meshing.WorkerPool
	cache    *meshing.MeshCache
	sched    *meshing.Scheduler
	prom     *prometheus.Registry
}

func setup(cfg *config.Config) (*app, error) {
	reg := registry.Default()
	if cfg.Registry != "" {
		var err error
		if reg, err = registry.Load(cfg.Registry); err != nil {
			return nil, err
		}
	}

	gen, err := newGenerator(cfg.World, reg)
	if err != nil {
		return nil, err
	}

	a := &app{
		reg:   reg,
		store: world.NewChunkStore(),
		cache: meshing.NewMeshCache(),
		prom:  prometheus.NewRegistry(),
	}
	a.streamer = world.NewChunkStreamer(a.store, gen, cfg.Mesher.Workers)
	a.pool = meshing.NewWorkerPool(reg, meshing.Options{
		RandomUV: cfg.Mesher.RandomUV,
		Seed:     cfg.Mesher.Seed,
	}, cfg.Mesher.Workers, cfg.Mesher.QueueSize)
	a.sched = meshing.NewScheduler(a.store, a.pool, reg, a.cache,
		logger.Named("scheduler"), meshing.NewMetrics(a.prom),
		meshing.SchedulerOptions{Batch: cfg.Mesher.Batch, Tick: cfg.Mesher.PumpInterval})
	return a, nil
}

func newGenerator(cfg config.WorldGenConfig, reg *registry.Registry) (world.TerrainGenerator, error) {
	palette, err := reg.Palette()
	if err != nil {
		return nil, err
	}
	if cfg.Generator == config.GeneratorFlat {
		return world.NewFlatGenerator(cfg.FlatHeight, palette.Stone), nil
	}
	gen := world.NewGenerator(cfg.Seed, palette)
	gen.SetSeaLevel(cfg.SeaLevel)
	return gen, nil
}

func (a *app) close() {
	a.pool.Shutdown()
	a.streamer.Close()
}

func (a *app) run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		queued := a.streamer.StreamAround(world.ChunkPos{}, cfg.World.Radius)
		a.streamer.Wait()
		if queued == 0 {
			break
		}
	}
	log.Info("region generated",
		zap.Int("chunks", a.store.Len()),
		zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	if err := a.sched.Drain(ctx); err != nil {
		return err
	}

	meshes := make([]*meshing.Meshes, 0, a.cache.Len())
	quads := 0
	a.cache.Range(func(m *meshing.Meshes) bool {
		meshes = append(meshes, m)
		quads += m.QuadCount()
		return true
	})
	log.Info("region meshed",
		zap.Int("chunks", len(meshes)),
		zap.Int("quads", quads),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("profile", profiling.TopN(3)))

	if cfg.Export.OBJPath == "" {
		return nil
	}
	stats, err := export.WriteFile(cfg.Export.OBJPath, meshes, cfg.Export.Compress)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", cfg.Export.OBJPath, err)
	}
	log.Info("obj written",
		zap.String("path", cfg.Export.OBJPath),
		zap.Int("objects", stats.Objects),
		zap.Int("triangles", stats.Triangles))
	return nil
}
