package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mondrian/pkg/cache"
	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/mondrian"
	"github.com/matzehuels/mondrian/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// Execute calls as long as its Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the artifact expiry; zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute paints and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	seed, seeded := opts.Seed, opts.Seed != 0
	if !seeded {
		seed = mondrian.RandomSeed()
	}
	result := &Result{Seed: seed, Artifacts: make(map[string][]byte)}

	if seeded && !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, opts, seed); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("loaded from cache", "formats", opts.Formats, "seed", seed)
			return result, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 1: Paint
	hooks := observability.Paint()
	hooks.OnPaintStart(ctx, opts.Style, opts.Width, opts.Height)
	paintStart := time.Now()
	canvas, root, err := Paint(opts, seed)
	result.Stats.PaintTime = time.Since(paintStart)
	if err != nil {
		hooks.OnPaintComplete(ctx, opts.Style, 0, 0, result.Stats.PaintTime, err)
		return nil, err
	}
	result.Canvas, result.Tree = canvas, root
	result.Stats.Tiles = len(root.Tiles())
	result.Stats.Depth = root.MaxDepth()
	hooks.OnPaintComplete(ctx, opts.Style, result.Stats.Tiles, result.Stats.Depth, result.Stats.PaintTime, nil)

	r.Logger.Info("painted canvas",
		"style", opts.Style,
		"size", fmtSize(opts.Width, opts.Height),
		"seed", seed,
		"tiles", result.Stats.Tiles,
		"depth", result.Stats.Depth,
		"duration", result.Stats.PaintTime)

	// Stage 2: Render
	renderStart := time.Now()
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, canvas, root, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(renderCode(err), err, "render %s", format)
		}
		result.Artifacts[format] = data

		if seeded {
			key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format, seed))
			if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, key, len(data))
			}
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookup returns every requested artifact from the cache, or false if any
// is missing. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, opts Options, seed uint64) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format, seed))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
			return nil, false
		}
		if !hit {
			observability.Cache().OnCacheMiss(ctx, key)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, key)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func fmtSize(w, h int) string {
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}

// renderCode keeps the code of a structured render error.
func renderCode(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
