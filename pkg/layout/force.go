package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

const eps = 1e-9

// Compute assigns every node a position inside the canvas and returns the
// positioned copies in input order. The inputs are not modified.
//
// Edges whose endpoints are missing from nodes are ignored. An empty node
// list returns an empty slice without running the simulation, and a
// non-positive or non-finite canvas returns the nodes unpositioned.
func Compute(nodes []graph.Node, edges []graph.Edge, width, height float64, opts ...Option) []graph.Node {
	if len(nodes) == 0 {
		return []graph.Node{}
	}
	out := graph.CloneNodes(nodes)
	if !validDim(width) || !validDim(height) {
		return out
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o = o.Normalize()

	sim := newSimulation(out, edges, NewBounds(width, height, o.Padding), o)
	sim.seed(out)
	for i := 0; i < o.Iterations; i++ {
		sim.step(i)
	}
	for i := range out {
		out[i] = out[i].WithPosition(graph.Position{X: sim.pos[i].x, Y: sim.pos[i].y})
	}
	return out
}

func validDim(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// =============================================================================
// Bounds
// =============================================================================

// Bounds is the rectangle node centers are kept in.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBounds returns the placement rectangle of a width×height canvas. The
// margin leaves room for the largest node circle plus padding, and is
// reduced on canvases too small to hold it so the range never inverts.
func NewBounds(width, height, padding float64) Bounds {
	m := Margin(width, height, padding)
	return Bounds{MinX: m, MinY: m, MaxX: width - m, MaxY: height - m}
}

// Margin returns the distance kept between node centers and the canvas edge.
func Margin(width, height, padding float64) float64 {
	return min(styles.MaxRadius+max(padding, 0), min(width, height)/2)
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p graph.Position) bool {
	return p.X >= b.MinX-eps && p.X <= b.MaxX+eps && p.Y >= b.MinY-eps && p.Y <= b.MaxY+eps
}

func (b Bounds) center() vec {
	return vec{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

func (b Bounds) clamp(p vec) vec {
	if math.IsNaN(p.x) || math.IsNaN(p.y) {
		return b.center()
	}
	return vec{
		x: min(max(p.x, b.MinX), b.MaxX),
		y: min(max(p.y, b.MinY), b.MaxY),
	}
}

// =============================================================================
// Simulation
// =============================================================================

type vec struct{ x, y float64 }

type spring struct {
	a, b   int
	weight float64
}

type simulation struct {
	pos     []vec
	disp    []vec
	springs []spring
	bounds  Bounds
	opts    Options
	rng     *rand.Rand

	k     float64 // ideal spacing for the canvas area
	rest  float64
	temp0 float64
	minD  float64
}

func newSimulation(nodes []graph.Node, edges []graph.Edge, b Bounds, o Options) *simulation {
	n := len(nodes)
	s := &simulation{
		pos:    make([]vec, n),
		disp:   make([]vec, n),
		bounds: b,
		opts:   o,
		rng:    rand.New(rand.NewPCG(o.Seed, o.Seed^0xdeadbeef)),
	}

	area := max((b.MaxX-b.MinX)*(b.MaxY-b.MinY), 1)
	s.k = math.Sqrt(area / float64(n))
	s.rest = o.RestLength
	if s.rest == 0 {
		s.rest = s.k / 2
	}
	s.temp0 = o.InitialTemperature
	if s.temp0 == 0 {
		s.temp0 = max(b.MaxX-b.MinX, b.MaxY-b.MinY, 1) / 10
	}
	s.minD = max(o.MinDistance, s.k*0.01)

	byID := make(map[string]int, n)
	for i, nd := range nodes {
		if _, dup := byID[nd.ID]; !dup {
			byID[nd.ID] = i
		}
	}
	for _, e := range edges {
		a, okA := byID[e.Source]
		c, okB := byID[e.Target]
		if !okA || !okB || a == c {
			continue
		}
		s.springs = append(s.springs, spring{a: a, b: c, weight: min(e.EffectiveWeight(), o.MaxWeight)})
	}
	return s
}

// seed places nodes with a prior position there and spreads the rest on a
// jittered circle around the center. Each node owns a disjoint angular slot,
// so no two seeded nodes share a start point.
func (s *simulation) seed(nodes []graph.Node) {
	n := len(nodes)
	c := s.bounds.center()
	r := seedRadiusRatio * 2 * min(c.x, c.y) // c is the canvas center
	slot := 2 * math.Pi / float64(n)

	for i, nd := range nodes {
		jitterA := (s.rng.Float64() - 0.5) * 0.5 * slot
		jitterR := 1 + (s.rng.Float64()-0.5)*0.1

		if p, ok := s.opts.Prior[nd.ID]; ok && p.Finite() {
			s.pos[i] = s.bounds.clamp(vec{p.X, p.Y})
			continue
		}
		if n == 1 {
			s.pos[i] = c
			continue
		}
		a := float64(i)*slot + jitterA
		s.pos[i] = s.bounds.clamp(vec{
			x: c.x + r*jitterR*math.Cos(a),
			y: c.y + r*jitterR*math.Sin(a),
		})
	}
}

// step runs one relaxation pass: repulsion between every pair, attraction
// along springs, gravity towards the center, then a temperature-capped move
// clamped into the bounds.
func (s *simulation) step(iter int) {
	for i := range s.disp {
		s.disp[i] = vec{}
	}

	k3 := s.k * s.k * s.k * s.opts.Repulsion
	minD2 := s.minD * s.minD
	for i := 0; i < len(s.pos); i++ {
		for j := i + 1; j < len(s.pos); j++ {
			dx := s.pos[i].x - s.pos[j].x
			dy := s.pos[i].y - s.pos[j].y
			d2 := dx*dx + dy*dy
			if d2 < eps {
				a := s.rng.Float64() * 2 * math.Pi
				dx, dy = math.Cos(a)*s.minD, math.Sin(a)*s.minD
				d2 = minD2
			}
			d := math.Sqrt(d2)
			f := k3 / max(d2, minD2)
			fx, fy := dx/d*f, dy/d*f
			s.disp[i].x += fx
			s.disp[i].y += fy
			s.disp[j].x -= fx
			s.disp[j].y -= fy
		}
	}

	for _, sp := range s.springs {
		dx := s.pos[sp.a].x - s.pos[sp.b].x
		dy := s.pos[sp.a].y - s.pos[sp.b].y
		d := math.Sqrt(dx*dx + dy*dy)
		if d <= s.rest || d < eps {
			continue
		}
		f := s.opts.SpringK * sp.weight * (d - s.rest)
		fx, fy := dx/d*f, dy/d*f
		s.disp[sp.a].x -= fx
		s.disp[sp.a].y -= fy
		s.disp[sp.b].x += fx
		s.disp[sp.b].y += fy
	}

	c := s.bounds.center()
	t := s.temp0 * (1 - float64(iter)/float64(s.opts.Iterations))
	for i := range s.pos {
		s.disp[i].x += (c.x - s.pos[i].x) * s.opts.Gravity
		s.disp[i].y += (c.y - s.pos[i].y) * s.opts.Gravity

		dx, dy := s.disp[i].x, s.disp[i].y
		l := math.Sqrt(dx*dx + dy*dy)
		if math.IsNaN(l) || math.IsInf(l, 0) {
			s.pos[i] = c
			continue
		}
		if l > t && l > eps {
			dx, dy = dx/l*t, dy/l*t
		}
		s.pos[i] = s.bounds.clamp(vec{s.pos[i].x + dx, s.pos[i].y + dy})
	}
}
