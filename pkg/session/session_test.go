package session

import (
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/viewport"
)

func loaded() adapter.Result {
	return adapter.Result{
		Source: "static",
		Graph: graph.Graph{
			Nodes: []graph.Node{
				{ID: "a", Label: "Alpha", Type: graph.TypeDocument},
				{ID: "b", Label: "Beta", Type: graph.TypeTopic},
				{ID: "c", Label: "Gamma", Type: graph.TypePerson},
			},
			Edges: []graph.Edge{
				{ID: "e1", Source: "a", Target: "b", Weight: 1},
				{ID: "e2", Source: "b", Target: "c", Weight: 1},
			},
		},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	opts := pipeline.Options{Width: 800, Height: 500}
	opts.SetLayoutDefaults()
	s := New(loaded(), opts, viewport.WithDelay(time.Hour))
	t.Cleanup(s.Close)
	return s
}

func TestSessionFirstScene(t *testing.T) {
	s := newSession(t)

	busy := s.Scene(false)
	if !busy.Busy || len(busy.Nodes) != 0 {
		t.Errorf("before the first pass: busy %v, %d nodes", busy.Busy, len(busy.Nodes))
	}

	sc := s.Scene(true)
	if sc.Busy {
		t.Error("flushed scene should not be busy")
	}
	if len(sc.Nodes) != 3 || len(sc.Edges) != 2 {
		t.Errorf("scene has %d nodes, %d edges", len(sc.Nodes), len(sc.Edges))
	}
	if sc.Width != 800 || sc.Height != 500 {
		t.Errorf("scene size = %vx%v", sc.Width, sc.Height)
	}
}

func TestSessionEvents(t *testing.T) {
	s := newSession(t)
	s.Scene(true)

	if err := s.HandleEvent(interaction.Event{Type: interaction.EventHover, Node: "a"}); err != nil {
		t.Fatalf("hover: %v", err)
	}
	sc := s.Scene(false)
	if sc.Focus != "a" {
		t.Errorf("focus = %q, want a", sc.Focus)
	}

	if err := s.HandleEvent(interaction.Event{Type: interaction.EventClick, Node: "b"}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if got := s.Info().State.Selected; got != "b" {
		t.Errorf("selected = %q, want b", got)
	}

	_ = s.HandleEvent(interaction.Event{Type: interaction.EventKey, Key: "+"})
	if z := s.Info().State.Zoom; z <= 1 {
		t.Errorf("zoom after '+' = %v", z)
	}

	err := s.HandleEvent(interaction.Event{Type: "teleport"})
	if !kberrors.Is(err, kberrors.ErrCodeInvalidEvent) {
		t.Errorf("unknown event error = %v, want INVALID_EVENT", err)
	}
}

func TestSessionResize(t *testing.T) {
	s := newSession(t)
	s.Scene(true)

	if !s.Resize(1200, 700) {
		t.Fatal("resize should schedule a pass")
	}
	if s.Resize(1200, 700) {
		t.Error("same size should not schedule another pass")
	}
	if !s.Scene(false).Busy {
		t.Error("scene should be busy while the relayout is pending")
	}
	sc := s.Scene(true)
	if sc.Width != 1200 || sc.Height != 700 {
		t.Errorf("scene size = %vx%v", sc.Width, sc.Height)
	}
	for _, n := range sc.Nodes {
		if n.X > 1200 || n.Y > 700 {
			t.Errorf("node %s at (%v, %v) outside the new bounds", n.ID, n.X, n.Y)
		}
	}

	s.Resize(1200, 100)
	if h := s.Info().Height; h != viewport.DefaultMinHeight {
		t.Errorf("height = %v, want the minimum %v", h, viewport.DefaultMinHeight)
	}
}

func TestSessionSetGraph(t *testing.T) {
	s := newSession(t)
	s.Scene(true)

	same := loaded()
	same.Graph.Nodes[0].Label = "Alpha (renamed)"
	if s.SetGraph(same) {
		t.Error("metadata-only change should not relayout")
	}

	grown := loaded()
	grown.Demo = true
	grown.Graph.Nodes = append(grown.Graph.Nodes, graph.Node{ID: "d", Label: "Delta"})
	if !s.SetGraph(grown) {
		t.Error("new node should relayout")
	}
	sc := s.Scene(true)
	if len(sc.Nodes) != 4 || !sc.Demo {
		t.Errorf("after SetGraph: %d nodes, demo %v", len(sc.Nodes), sc.Demo)
	}
	if !s.Info().Demo {
		t.Error("Info should report demo data")
	}
}

func TestSessionInfoError(t *testing.T) {
	res := loaded()
	res.Demo = true
	res.Err = kberrors.New(kberrors.ErrCodeTimeout, "source timed out")
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	s := New(res, opts)
	defer s.Close()

	info := s.Info()
	if info.Error != "source timed out" || !info.Demo {
		t.Errorf("Info = %+v", info)
	}
	if info.Stats.NodeCount != 3 {
		t.Errorf("stats node count = %d", info.Stats.NodeCount)
	}
}

// =============================================================================
// Store
// =============================================================================

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockStore(ttl time.Duration, max int) (*Store, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewStore(ttl, max)
	st.now = c.now
	return st, c
}

func TestStoreGetAndExpire(t *testing.T) {
	st, clk := newClockStore(time.Minute, 0)
	s := newSession(t)
	st.Add(s)

	got, err := st.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}

	clk.advance(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}
	clk.advance(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Error("Get should extend the idle timer")
	}

	clk.advance(2 * time.Minute)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get after TTL = %v, want ErrExpired", err)
	}
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session should be removed, got %v", err)
	}
}

func TestStoreDeleteAndCleanup(t *testing.T) {
	st, clk := newClockStore(time.Minute, 0)
	a, b := newSession(t), newSession(t)
	st.Add(a)
	clk.advance(30 * time.Second)
	st.Add(b)

	if !st.Delete(a.ID) || st.Delete(a.ID) {
		t.Error("Delete should report existence once")
	}

	st.Add(a)
	clk.advance(45 * time.Second)
	// a was re-added at 30s, b at 30s; both expire at 90s.
	if n := st.Cleanup(); n != 0 {
		t.Errorf("Cleanup removed %d before expiry", n)
	}
	clk.advance(time.Minute)
	if n := st.Cleanup(); n != 2 || st.Len() != 0 {
		t.Errorf("Cleanup removed %d, %d left", n, st.Len())
	}
}

func TestStoreEvictsWhenFull(t *testing.T) {
	st, clk := newClockStore(time.Hour, 2)
	a, b, c := newSession(t), newSession(t), newSession(t)
	st.Add(a)
	clk.advance(time.Second)
	st.Add(b)
	clk.advance(time.Second)
	st.Add(c)

	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}
	if _, err := st.Get(a.ID); !errors.Is(err, ErrNotFound) {
		t.Error("oldest session should have been evicted")
	}
	if _, err := st.Get(c.ID); err != nil {
		t.Errorf("newest session missing: %v", err)
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("ids should be unique")
	}
}
