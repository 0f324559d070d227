package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/cache"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/observability"
	"github.com/matzehuels/kbgraph/pkg/render/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → layout → render for the initial interaction state.
// A failing source does not fail the run; see Result.Load for fallback
// details.
func (r *Runner) Execute(ctx context.Context, src adapter.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	loadStart := time.Now()
	loaded := r.Load(ctx, src, opts)
	result.Load = loaded
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(loaded.Graph.Nodes)
	result.Stats.EdgeCount = len(loaded.Graph.Edges)
	r.Logger.Info("loaded graph",
		"source", loaded.Source,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"demo", loaded.Demo,
		"duration", result.Stats.LoadTime)

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, loaded.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.GraphHash = GraphHash(loaded.Graph)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	result.Scene = r.Scene(l, interaction.NewState(), opts, loaded.Demo)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load fetches and validates the graph from src. The runner's cache keeps
// the last good graph per source as a fallback ahead of demo data.
func (r *Runner) Load(ctx context.Context, src adapter.Source, opts Options) adapter.Result {
	l := adapter.NewLoader(src, r.Logger)
	l.Types = opts.Types
	l.Snapshots = r.Cache
	l.Keyer = r.Keyer
	if opts.Timeout > 0 {
		l.Timeout = opts.Timeout
	}
	return l.Load(ctx)
}

// LayoutWithCacheInfo computes positions for g and reports whether the
// result came from cache. Layouts seeded from prior positions bypass the
// cache since the prior is not part of the key.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheable := len(opts.Tuning.Prior) == 0
	cacheKey := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	l := ComputeLayout(ctx, g, opts)

	if cacheable {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
				r.Logger.Debug("layout cache write failed", "err", err)
			} else {
				hooks.OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// ComputeLayout runs the force simulation without caching. opts must have
// layout defaults applied.
func ComputeLayout(ctx context.Context, g graph.Graph, opts Options) graph.Layout {
	edges := graph.NewIndex(g.Nodes, g.Edges).ResolvedEdges()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(edges))
	start := time.Now()

	nodes := layout.Compute(g.Nodes, edges, opts.Width, opts.Height, layout.WithOptions(opts.Tuning))

	hooks.OnLayoutComplete(ctx, len(nodes), opts.Tuning.Iterations, time.Since(start), nil)
	return graph.Layout{
		Width:    opts.Width,
		Height:   opts.Height,
		Seed:     opts.Tuning.Seed,
		Nodes:    nodes,
		Edges:    edges,
		Identity: graph.IdentityKey(g.Nodes, g.Edges),
	}
}

// Scene builds the drawable scene of l for an interaction state.
func (r *Runner) Scene(l graph.Layout, state interaction.State, opts Options, demo bool) scene.Scene {
	return scene.Build(l.Nodes, l.Edges, state, opts.SceneOptions(l, demo))
}

// RenderWithCacheInfo writes sc in every requested format, concurrently.
// The bool reports whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	sceneHash := cache.HashJSON(sc)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup {
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, sc, missing, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render writes sc in the given formats without caching. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, sc scene.Scene, formats []string, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, sc, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// GraphHash is the content hash a layout is cached under.
func GraphHash(g graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return cache.HashJSON(g)
	}
	return cache.Hash(data)
}
