package interaction

import (
	"math"
	"testing"

	"github.com/matzehuels/kbgraph/pkg/graph"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestZoomClamp(t *testing.T) {
	s := NewState()
	for i := 0; i < 5; i++ {
		s = ZoomOut(s)
	}
	if !almostEqual(s.Zoom, MinZoom) {
		t.Errorf("zoom after 5 zoom-outs = %v, want %v", s.Zoom, MinZoom)
	}

	for i := 0; i < 100; i++ {
		s = ZoomIn(s)
		if s.Zoom < MinZoom || s.Zoom > MaxZoom {
			t.Fatalf("zoom %v left [%v, %v]", s.Zoom, MinZoom, MaxZoom)
		}
	}
	if s.Zoom != MaxZoom {
		t.Errorf("zoom after 100 zoom-ins = %v, want %v", s.Zoom, MaxZoom)
	}

	for _, d := range []float64{-1000, 1000, math.NaN(), math.Inf(-1)} {
		z := ZoomBy(NewState(), d).Zoom
		if z < MinZoom || z > MaxZoom || math.IsNaN(z) {
			t.Errorf("ZoomBy(%v) = %v", d, z)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	s := ZoomIn(ZoomIn(NewState()))
	if !almostEqual(s.Zoom, 1.3) {
		t.Errorf("zoom = %v, want 1.3", s.Zoom)
	}
	s = ZoomOut(s)
	if !almostEqual(s.Zoom, 1.15) {
		t.Errorf("zoom = %v, want 1.15", s.Zoom)
	}
}

func TestResetView(t *testing.T) {
	s := NewState()
	s = PanBy(s, Point{X: 10, Y: -4})
	s = ZoomIn(s)
	s = Hover(s, "a")
	s = Click(s, "b")

	s = ResetView(s)
	if s.Zoom != 1 || s.Pan != (Point{}) {
		t.Errorf("ResetView = %+v", s)
	}
	if s.Hovered != "a" || s.Selected != "b" {
		t.Error("ResetView should keep hover and selection")
	}
}

func TestClickToggle(t *testing.T) {
	tests := []struct {
		name   string
		clicks []string
		want   string
	}{
		{"single", []string{"a"}, "a"},
		{"same twice", []string{"a", "a"}, ""},
		{"two different", []string{"a", "b"}, "b"},
		{"three same", []string{"a", "a", "a"}, "a"},
		{"back and forth", []string{"a", "b", "a"}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			for _, id := range tt.clicks {
				s = Click(s, id)
			}
			if s.Selected != tt.want {
				t.Errorf("Selected = %q, want %q", s.Selected, tt.want)
			}
		})
	}
}

func TestPanning(t *testing.T) {
	s := NewState()
	if s.Mode() != Idle {
		t.Fatal("initial mode should be idle")
	}

	s = PointerMove(s, Point{X: 50, Y: 50})
	if s.Pan != (Point{}) {
		t.Error("move without drag changed pan")
	}

	s = PointerDown(s, Point{X: 10, Y: 10}, "")
	if s.Mode() != Panning {
		t.Fatal("background press should start panning")
	}
	s = PointerMove(s, Point{X: 15, Y: 20})
	s = PointerMove(s, Point{X: 25, Y: 18})
	if s.Pan != (Point{X: 15, Y: 8}) {
		t.Errorf("Pan = %+v, want {15 8}", s.Pan)
	}

	s = PointerUp(s)
	if s.Mode() != Idle {
		t.Error("release should end panning")
	}
	s = PointerMove(s, Point{X: 100, Y: 100})
	if s.Pan != (Point{X: 15, Y: 8}) {
		t.Error("move after release changed pan")
	}

	s = PointerDown(s, Point{}, "")
	s = PointerLeave(s)
	if s.Dragging {
		t.Error("leaving the surface should end panning")
	}
}

func TestPointerDownOnNode(t *testing.T) {
	s := PointerDown(NewState(), Point{X: 1, Y: 1}, "a")
	if s.Dragging {
		t.Error("press on a node started a pan")
	}
}

func TestFocus(t *testing.T) {
	s := NewState()
	if s.Focus() != "" {
		t.Error("initial focus should be empty")
	}
	s = Click(s, "sel")
	if s.Focus() != "sel" {
		t.Errorf("Focus = %q, want sel", s.Focus())
	}
	s = Hover(s, "hov")
	if s.Focus() != "hov" {
		t.Errorf("Focus = %q, hover should take precedence", s.Focus())
	}
	s = Unhover(s)
	if s.Focus() != "sel" {
		t.Errorf("Focus = %q, want sel after unhover", s.Focus())
	}
}

func scenarioIndex() *graph.Index {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Weight: 1},
		{ID: "e2", Source: "b", Target: "c", Weight: 1},
		{ID: "e3", Source: "a", Target: "missing"},
	}
	return graph.NewIndex(nodes, edges)
}

func TestHighlight(t *testing.T) {
	idx := scenarioIndex()

	h := Highlight(NewState(), idx)
	if h.Active {
		t.Error("no focus should give an inactive set")
	}

	h = Highlight(Hover(NewState(), "a"), idx)
	if !h.Active || h.Focus != "a" {
		t.Fatalf("Highlight = %+v", h)
	}
	if len(h.Edges) != 1 || !h.Edges["e1"] {
		t.Errorf("Edges = %v, want {e1}", h.Edges)
	}
	if !h.HasNode("a") || !h.HasNode("b") || h.HasNode("c") {
		t.Errorf("Nodes = %v, want {a b}", h.Nodes)
	}

	h = Highlight(Hover(NewState(), "b"), idx)
	if len(h.Edges) != 2 || len(h.Nodes) != 3 {
		t.Errorf("hub highlight = %+v", h)
	}

	h = Highlight(Hover(NewState(), "gone"), idx)
	if h.Active {
		t.Error("unknown focus should give an inactive set")
	}
}

func TestEdgeKey(t *testing.T) {
	if EdgeKey(graph.Edge{ID: "x", Source: "a", Target: "b"}) != "x" {
		t.Error("EdgeKey should prefer the ID")
	}
	if EdgeKey(graph.Edge{Source: "a", Target: "b"}) != "a->b" {
		t.Error("EdgeKey should fall back to endpoints")
	}
}

func TestKeyAction(t *testing.T) {
	tests := map[string]Action{
		"+": ActionZoomIn, "=": ActionZoomIn, "-": ActionZoomOut, "0": ActionReset,
		"left": ActionPanLeft, "right": ActionPanRight, "up": ActionPanUp, "down": ActionPanDown,
		"x": ActionNone, "": ActionNone,
	}
	for key, want := range tests {
		if got := KeyAction(key); got != want {
			t.Errorf("KeyAction(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestApplyAndParseAction(t *testing.T) {
	s := Apply(NewState(), ActionPanLeft)
	if s.Pan != (Point{X: PanStep}) {
		t.Errorf("pan-left = %+v", s.Pan)
	}
	s = Apply(s, ActionPanDown)
	if s.Pan != (Point{X: PanStep, Y: -PanStep}) {
		t.Errorf("pan-down = %+v", s.Pan)
	}
	for a := ActionNone; a <= ActionPanDown; a++ {
		if ParseAction(a.String()) != a {
			t.Errorf("ParseAction(%q) != %v", a.String(), a)
		}
	}
	if ParseAction("bogus") != ActionNone {
		t.Error("unknown action name should parse to none")
	}
}
