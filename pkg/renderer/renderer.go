// Package renderer turns a scene into an image: a thin-lens camera feeds a
// path-tracing integrator, workers render tiles in parallel across
// progressive passes, and a thread-safe film accumulates the results.
package renderer

import (
	"context"
	"time"

	"github.com/sdao/gammaray/log"
	"github.com/sdao/gammaray/pkg/sampler"
)

var logger = log.New("renderer")

// Config controls a render.
type Config struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int    // Hard bounce cap per path
	Seed            uint64 // Root seed for all samplers
	TileSize        int
	Workers         int // Zero means one worker per CPU
	Passes          int // Progressive passes; each adds samples to every pixel
	Gamma           float64
}

// DefaultConfig returns the settings used when the caller specifies
// nothing.
func DefaultConfig() Config {
	return Config{
		Width:           512,
		Height:          512,
		SamplesPerPixel: 64,
		MaxDepth:        50,
		Seed:            1,
		TileSize:        64,
		Workers:         0,
		Passes:          4,
		Gamma:           2.2,
	}
}

// Renderer coordinates progressive tile rendering of a single image.
type Renderer struct {
	world      World
	camera     *Camera
	film       *Film
	integrator *Integrator
	config     Config
	tiles      []Tile
}

// New creates a renderer for the given world and camera.
func New(world World, camera *Camera, config Config) *Renderer {
	if config.Passes < 1 {
		config.Passes = 1
	}
	if config.TileSize < 1 {
		config.TileSize = 64
	}
	return &Renderer{
		world:      world,
		camera:     camera,
		film:       NewFilm(config.Width, config.Height),
		integrator: NewIntegrator(world, config.MaxDepth, config.Seed),
		config:     config,
		tiles:      NewTileGrid(config.Width, config.Height, config.TileSize),
	}
}

// Film exposes the accumulation buffer. It may be snapshotted at any time,
// including while Render is in flight.
func (r *Renderer) Film() *Film {
	return r.film
}

// samplesForPass returns the cumulative per-pixel sample target after the
// given pass. The first pass is a quick preview; the final pass lands
// exactly on the configured sample count.
func (r *Renderer) samplesForPass(pass int) int {
	if r.config.Passes == 1 || pass == r.config.Passes {
		return r.config.SamplesPerPixel
	}
	if pass == 1 {
		return max(1, r.config.SamplesPerPixel/(r.config.Passes*r.config.Passes))
	}
	perPass := r.config.SamplesPerPixel / r.config.Passes
	return min(max(pass*perPass, pass), r.config.SamplesPerPixel)
}

// Render runs all progressive passes, blocking until the image is complete
// or ctx is cancelled. On cancellation it returns ctx.Err() along with the
// stats for the samples finished so far; the film keeps everything
// accumulated up to that point.
func (r *Renderer) Render(ctx context.Context) (RenderStats, error) {
	start := time.Now()
	pool := newWorkerPool(r.config.Workers, len(r.tiles))
	pool.start(ctx, r.renderTile)
	defer pool.stop()

	logger.Noticef("rendering %dx%d, %d samples/pixel, %d passes, %d workers",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, r.config.Passes, pool.numWorkers)

	stats := RenderStats{TotalPixels: r.config.Width * r.config.Height}
	prevTarget := 0

	for pass := 1; pass <= r.config.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			return r.finishStats(stats, start), err
		}

		target := r.samplesForPass(pass)
		if target <= prevTarget {
			continue
		}
		passStart := time.Now()
		logger.Infof("pass %d/%d: %d samples/pixel", pass, r.config.Passes, target)

		for _, tile := range r.tiles {
			pool.submit(tileTask{tile: tile, startSample: prevTarget, targetSamples: target})
		}
		for range r.tiles {
			result := pool.result()
			if result.err != nil {
				return r.finishStats(stats, start), result.err
			}
			stats.TotalSamples += result.samples
		}

		logger.Infof("pass %d done in %v", pass, time.Since(passStart).Round(time.Millisecond))
		stats.Passes = pass
		prevTarget = target
	}

	return r.finishStats(stats, start), ctx.Err()
}

func (r *Renderer) finishStats(stats RenderStats, start time.Time) RenderStats {
	stats.Elapsed = time.Since(start)
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// renderTile brings every pixel of the tile from startSample up to
// targetSamples. Cancellation is checked between pixel samples so a stuck
// render stops within one path's worth of work.
func (r *Renderer) renderTile(ctx context.Context, task tileTask) (int, error) {
	samples := 0
	for py := task.tile.Bounds.Min.Y; py < task.tile.Bounds.Max.Y; py++ {
		for px := task.tile.Bounds.Min.X; px < task.tile.Bounds.Max.X; px++ {
			for s := task.startSample; s < task.targetSamples; s++ {
				if err := ctx.Err(); err != nil {
					return samples, err
				}
				cameraRng := sampler.NewPathSampler(r.config.Seed, px, py, s, sampler.StreamCamera)
				ray := r.camera.GenerateRay(px, py, cameraRng)
				radiance := r.integrator.EstimateRadiance(ray, px, py, s)
				r.film.AddSample(px, py, radiance)
				samples++
			}
		}
	}
	return samples, nil
}
