package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kbgraph/pkg/cache"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/observability"
)

// DefaultTimeout bounds one Load call, including retries.
const DefaultTimeout = 15 * time.Second

// Result is the outcome of one Load. It always carries a usable graph:
// when the source fails, Graph is the last good snapshot (Stale) or the
// sample graph (Demo), and Err records why.
type Result struct {
	Graph    graph.Graph
	Source   string
	Demo     bool
	Stale    bool
	Err      error
	Report   Report
	Duration time.Duration
}

// Report counts what boundary validation changed.
type Report struct {
	InvalidNodes   int `json:"invalid_nodes"`
	DuplicateNodes int `json:"duplicate_nodes"`
	FilteredNodes  int `json:"filtered_nodes"`
	InvalidEdges   int `json:"invalid_edges"`
	DuplicateEdges int `json:"duplicate_edges"`
	DefaultWeights int `json:"default_weights"`
}

// Changed reports whether validation altered the input.
func (r Report) Changed() bool { return r != Report{} }

// Loader fetches a graph from a Source, validates it and falls back to
// demo data when the source is unavailable.
type Loader struct {
	Source  Source
	Timeout time.Duration
	// Types keeps only nodes of these types. Empty keeps all.
	Types []graph.NodeType
	// Snapshots, when set, keeps the last good graph per source and is
	// served before demo data on failure.
	Snapshots cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewLoader returns a loader for src with the default timeout.
func NewLoader(src Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Source: src, Timeout: DefaultTimeout, Keyer: cache.NewDefaultKeyer(), Logger: logger}
}

// Load fetches and validates the graph. It never returns an unusable
// result; check Demo, Stale and Err to tell the user what they are seeing.
func (l *Loader) Load(ctx context.Context) Result {
	start := time.Now()
	name := SourceSample
	if l.Source != nil {
		name = l.Source.Name()
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)

	res := l.load(ctx, name)
	res.Duration = time.Since(start)
	hooks.OnLoadComplete(ctx, name, len(res.Graph.Nodes), res.Demo, res.Duration, res.Err)
	return res
}

func (l *Loader) load(ctx context.Context, name string) Result {
	logger := l.logger()
	if l.Source == nil {
		return l.demo(name, kberrors.New(kberrors.ErrCodeInvalidSource, "no data source configured"))
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	raw, err := l.Source.Fetch(fetchCtx)
	if err == nil && fetchCtx.Err() != nil {
		err = fetchCtx.Err()
	}
	cancel()

	if err != nil {
		if fetchCtx.Err() == context.DeadlineExceeded && !kberrors.Is(err, kberrors.ErrCodeTimeout) {
			err = kberrors.Wrap(kberrors.ErrCodeTimeout, err, "source %s timed out after %s", name, timeout)
		}
		if g, ok := l.readSnapshot(ctx, name); ok {
			logger.Warn("data source unavailable, using last snapshot", "source", name, "err", err)
			g, rep := Sanitize(g, l.Types)
			return Result{Graph: g, Source: name, Stale: true, Err: err, Report: rep}
		}
		logger.Warn("data source unavailable, using sample graph", "source", name, "err", err)
		return l.demo(name, err)
	}

	g, rep := Sanitize(raw, l.Types)
	if rep.Changed() {
		logger.Debug("sanitized graph", "source", name, "report", fmt.Sprintf("%+v", rep))
	}
	l.writeSnapshot(ctx, name, raw)
	return Result{Graph: g, Source: name, Report: rep}
}

func (l *Loader) demo(name string, err error) Result {
	g, rep := Sanitize(graph.SampleGraph(), l.Types)
	return Result{Graph: g, Source: name, Demo: true, Err: err, Report: rep}
}

func (l *Loader) readSnapshot(ctx context.Context, name string) (graph.Graph, bool) {
	if l.Snapshots == nil {
		return graph.Graph{}, false
	}
	data, hit, err := l.Snapshots.Get(ctx, l.keyer().SnapshotKey(name))
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "snapshot")
		return graph.Graph{}, false
	}
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return graph.Graph{}, false
	}
	observability.Cache().OnCacheHit(ctx, "snapshot")
	return g, true
}

func (l *Loader) writeSnapshot(ctx context.Context, name string, g graph.Graph) {
	if l.Snapshots == nil {
		return
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return
	}
	if err := l.Snapshots.Set(ctx, l.keyer().SnapshotKey(name), data, cache.TTLSnapshot); err != nil {
		l.logger().Debug("snapshot write failed", "source", name, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
}

func (l *Loader) keyer() cache.Keyer {
	if l.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return l.Keyer
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

// =============================================================================
// Boundary Validation
// =============================================================================

// Sanitize validates a raw graph once, at the boundary, so nothing
// downstream has to. It drops nodes with invalid or duplicate ids (first
// occurrence wins), drops nodes outside types when types is non-empty,
// trims labels, normalizes types, clears negative document counts and any
// supplied positions, names anonymous edges, drops edges with invalid or
// duplicate ids and replaces non-positive or non-finite weights with
// graph.DefaultWeight. Edges pointing at unknown nodes are kept; the render
// path skips them.
func Sanitize(g graph.Graph, types []graph.NodeType) (graph.Graph, Report) {
	var rep Report
	out := graph.Graph{
		Nodes: make([]graph.Node, 0, len(g.Nodes)),
		Edges: make([]graph.Edge, 0, len(g.Edges)),
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if kberrors.ValidateNodeID(n.ID) != nil {
			rep.InvalidNodes++
			continue
		}
		if seen[n.ID] {
			rep.DuplicateNodes++
			continue
		}
		seen[n.ID] = true

		n.Type = graph.ParseNodeType(string(n.Type))
		if len(types) > 0 && !slices.Contains(types, n.Type) {
			rep.FilteredNodes++
			continue
		}
		n.Label = strings.TrimSpace(n.Label)
		n.DocumentCount = max(n.DocumentCount, 0)
		n.Position = nil
		n.Topics = slices.Clone(n.Topics)
		out.Nodes = append(out.Nodes, n)
	}

	seenEdges := make(map[string]bool, len(g.Edges))
	for i, e := range g.Edges {
		if kberrors.ValidateNodeID(e.Source) != nil || kberrors.ValidateNodeID(e.Target) != nil {
			rep.InvalidEdges++
			continue
		}
		if e.ID == "" {
			e.ID = e.Source + "->" + e.Target
			if seenEdges[e.ID] {
				// parallel anonymous edge
				e.ID = fmt.Sprintf("%s#%d", e.ID, i)
			}
		}
		if seenEdges[e.ID] {
			rep.DuplicateEdges++
			continue
		}
		seenEdges[e.ID] = true

		if e.Weight <= 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			e.Weight = graph.DefaultWeight
			rep.DefaultWeights++
		}
		e.Label = strings.TrimSpace(e.Label)
		out.Edges = append(out.Edges, e)
	}
	return out, rep
}

// ParseTypes parses a comma-separated type filter such as
// "document,topic". Unknown names are rejected.
func ParseTypes(s string) ([]graph.NodeType, error) {
	var out []graph.NodeType
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t := graph.ParseNodeType(part)
		if !t.Valid() {
			return nil, kberrors.New(kberrors.ErrCodeInvalidInput, "unknown node type %q", part)
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}
