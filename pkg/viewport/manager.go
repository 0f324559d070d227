package viewport

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/layout"
)

// Defaults.
const (
	DefaultDelay     = 150 * time.Millisecond
	DefaultMinHeight = 400.0
)

// LayoutFunc computes positions for a graph on a width×height canvas. prior
// holds the positions of the previous pass, or nil.
type LayoutFunc func(nodes []graph.Node, edges []graph.Edge, width, height float64, prior map[string]graph.Position) []graph.Node

// ForceLayout returns a LayoutFunc backed by layout.Compute.
func ForceLayout(opts ...layout.Option) LayoutFunc {
	return func(nodes []graph.Node, edges []graph.Edge, width, height float64, prior map[string]graph.Position) []graph.Node {
		all := append(opts[:len(opts):len(opts)], layout.WithPrior(prior))
		return layout.Compute(nodes, edges, width, height, all...)
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option { return func(m *Manager) { m.delay = d } }

// WithMinHeight sets the floor applied to observed heights.
func WithMinHeight(h float64) Option { return func(m *Manager) { m.minHeight = h } }

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option { return func(m *Manager) { m.sched = s } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithOnLayout registers a callback invoked after every completed pass. It
// runs on the goroutine that ran the layout, outside the manager's lock.
func WithOnLayout(fn func([]graph.Node)) Option { return func(m *Manager) { m.onLayout = fn } }

// WithPriorReuse controls whether a relayout starts from the previous
// positions. It is on by default.
func WithPriorReuse(on bool) Option { return func(m *Manager) { m.reusePrior = on } }

// Manager tracks the surface size and the graph identity, and runs a
// debounced layout pass whenever either changes.
//
// All methods are safe for concurrent use. The layout itself runs outside
// the lock, on the scheduler's goroutine or the caller of Flush.
type Manager struct {
	delay      time.Duration
	minHeight  float64
	sched      Scheduler
	layoutFn   LayoutFunc
	onLayout   func([]graph.Node)
	logger     *log.Logger
	reusePrior bool

	mu         sync.Mutex
	width      float64
	height     float64
	nodes      []graph.Node
	edges      []graph.Edge
	identity   string
	positions  []graph.Node
	stale      bool
	timer      Timer
	generation uint64
	started    uint64
	passes     int
}

// New returns a manager that lays out with fn.
func New(fn LayoutFunc, opts ...Option) *Manager {
	m := &Manager{
		delay:      DefaultDelay,
		minHeight:  DefaultMinHeight,
		sched:      TimeScheduler{},
		layoutFn:   fn,
		logger:     log.New(io.Discard),
		reusePrior: true,
		positions:  []graph.Node{},
		stale:      true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.layoutFn == nil {
		m.layoutFn = ForceLayout()
	}
	return m
}

// Observe records a new surface size. A non-positive width means the surface
// has not been measured yet and is ignored. Heights below the minimum are
// raised to it. Observe reports whether a pass was scheduled.
func (m *Manager) Observe(width, height float64) bool {
	if !(width > 0) || math.IsInf(width, 0) {
		m.logger.Debug("viewport not measured", "width", width)
		return false
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height < m.minHeight {
		height = m.minHeight
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width && height == m.height {
		return false
	}
	m.width, m.height = width, height
	m.logger.Debug("viewport resized", "width", width, "height", height)
	return m.invalidateLocked()
}

// SetGraph replaces the graph. A pass is scheduled only when the set of node
// and edge identities changed; otherwise the node metadata is updated in
// place on the current positions. SetGraph reports whether a pass was
// scheduled.
func (m *Manager) SetGraph(nodes []graph.Node, edges []graph.Edge) bool {
	key := graph.IdentityKey(nodes, edges)
	ns := graph.CloneNodes(nodes)
	es := append([]graph.Edge(nil), edges...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes, m.edges = ns, es
	if key == m.identity {
		m.positions = carryPositions(ns, m.positions)
		return false
	}
	m.identity = key
	m.logger.Debug("graph changed", "nodes", len(ns), "edges", len(es))
	return m.invalidateLocked()
}

// invalidateLocked marks the current layout stale and arms a new timer,
// cancelling any pending one. Without a measured width nothing is armed.
func (m *Manager) invalidateLocked() bool {
	m.generation++
	m.stale = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.width <= 0 {
		return false
	}
	gen := m.generation
	m.timer = m.sched.AfterFunc(m.delay, func() { m.run(gen) })
	return true
}

// run performs the pass for generation gen unless a newer request
// superseded it.
func (m *Manager) run(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || gen == m.started {
		m.mu.Unlock()
		return
	}
	m.started = gen
	m.timer = nil
	nodes, edges := m.nodes, m.edges
	width, height := m.width, m.height
	var prior map[string]graph.Position
	if m.reusePrior && len(m.positions) > 0 {
		prior = graph.Positions(m.positions)
	}
	m.mu.Unlock()

	start := time.Now()
	out := m.layoutFn(nodes, edges, width, height, prior)
	if out == nil {
		out = []graph.Node{}
	}

	m.mu.Lock()
	if gen != m.generation {
		// Invalidated while running; the newer pass is already armed.
		m.mu.Unlock()
		return
	}
	m.positions = out
	m.stale = false
	m.passes++
	cb := m.onLayout
	m.mu.Unlock()

	m.logger.Debug("layout pass complete", "nodes", len(out), "took", time.Since(start).Round(time.Millisecond))
	if cb != nil {
		cb(out)
	}
}

// Flush runs a pending pass synchronously and reports whether one ran.
func (m *Manager) Flush() bool {
	m.mu.Lock()
	if m.timer == nil {
		m.mu.Unlock()
		return false
	}
	m.timer.Stop()
	m.timer = nil
	gen := m.generation
	m.mu.Unlock()

	m.run(gen)

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started == gen && !m.stale
}

// Ready reports whether the positions match the current size and graph.
// It is false while a pass is pending and before the first pass.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.stale
}

// Pending reports whether a pass is armed.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

// Positions returns the most recently completed layout. The slice is shared
// and must not be modified.
func (m *Manager) Positions() []graph.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positions
}

// Graph returns the current graph.
func (m *Manager) Graph() ([]graph.Node, []graph.Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nodes, m.edges
}

// Size returns the tracked width and height.
func (m *Manager) Size() (width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// Passes returns the number of completed layout passes.
func (m *Manager) Passes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passes
}

// Close cancels any pending pass.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// carryPositions copies positions from prev onto the nodes of next with
// matching IDs.
func carryPositions(next, prev []graph.Node) []graph.Node {
	pos := graph.Positions(prev)
	out := make([]graph.Node, len(next))
	for i, n := range next {
		if p, ok := pos[n.ID]; ok {
			n = n.WithPosition(p)
		}
		out[i] = n
	}
	return out
}
