package interaction

import (
	"math"
	"testing"

	"github.com/matzehuels/kbgraph/pkg/graph"
)

type fakePanel struct {
	open       bool
	node       graph.Node
	related    []graph.Edge
	all        []graph.Node
	opens      int
	closes     int
	onClose    func()
	onNavigate func(graph.Node)
}

func (p *fakePanel) Open(node graph.Node, related []graph.Edge, all []graph.Node, onClose func(), onNavigate func(graph.Node)) {
	p.open = true
	p.opens++
	p.node, p.related, p.all = node, related, all
	p.onClose, p.onNavigate = onClose, onNavigate
}

func (p *fakePanel) Close() {
	p.open = false
	p.closes++
}

func newTestController() (*Controller, *fakePanel, *[]string) {
	nodes := []graph.Node{
		{ID: "a", Label: "Alpha", Position: &graph.Position{X: 1, Y: 1}},
		{ID: "b", Label: "Beta", Position: &graph.Position{X: 2, Y: 2}},
		{ID: "c", Label: "Gamma", Position: &graph.Position{X: 3, Y: 3}},
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c"},
	}
	var clicked []string
	panel := &fakePanel{}
	c := NewController()
	c.Panel = panel
	c.OnNodeClick = func(n graph.Node) { clicked = append(clicked, n.ID) }
	c.SetGraph(nodes, edges)
	return c, panel, &clicked
}

func TestControllerClickOpensPanel(t *testing.T) {
	c, panel, clicked := newTestController()

	c.Click("b")
	if !panel.open || panel.node.ID != "b" {
		t.Fatalf("panel = %+v, want open on b", panel)
	}
	if len(panel.related) != 2 || len(panel.all) != 3 {
		t.Errorf("panel got %d related edges and %d nodes, want 2 and 3", len(panel.related), len(panel.all))
	}
	if len(*clicked) != 1 || (*clicked)[0] != "b" {
		t.Errorf("OnNodeClick calls = %v, want [b]", *clicked)
	}

	// Second click deselects: the panel closes and the hook stays silent.
	c.Click("b")
	if panel.open || c.State().Selected != "" {
		t.Error("second click should deselect and close the panel")
	}
	if len(*clicked) != 1 {
		t.Errorf("OnNodeClick called on deselect: %v", *clicked)
	}
}

func TestControllerNavigate(t *testing.T) {
	c, panel, clicked := newTestController()
	c.Click("a")

	panel.onNavigate(graph.Node{ID: "c"})
	if c.State().Selected != "c" {
		t.Errorf("Selected = %q, want c", c.State().Selected)
	}
	if panel.node.ID != "c" || panel.opens != 2 {
		t.Errorf("panel node = %q, opens = %d", panel.node.ID, panel.opens)
	}
	if got := *clicked; len(got) != 2 || got[1] != "c" {
		t.Errorf("OnNodeClick calls = %v, want [a c]", got)
	}
}

func TestControllerPanelClose(t *testing.T) {
	c, panel, _ := newTestController()
	c.Click("a")
	panel.onClose()
	if c.State().Selected != "" {
		t.Error("panel close should clear the selection")
	}

	// After closing, clicking the same node selects it again.
	c.Click("a")
	if c.State().Selected != "a" {
		t.Error("click after close should select")
	}
}

func TestControllerUnknownNode(t *testing.T) {
	c, panel, clicked := newTestController()
	c.Click("missing")
	c.Hover("missing")
	if c.State().Selected != "" || c.State().Hovered != "" || panel.opens != 0 || len(*clicked) != 0 {
		t.Errorf("unknown node changed state: %+v", c.State())
	}
}

func TestControllerHoverHighlight(t *testing.T) {
	c, _, _ := newTestController()
	c.Click("c")
	c.Hover("a")

	h := c.Highlight()
	if h.Focus != "a" || !h.Edges["e1"] || h.Edges["e2"] {
		t.Errorf("hover should drive the highlight: %+v", h)
	}
	if c.State().Selected != "c" {
		t.Error("hover must not change the selection")
	}

	c.Unhover()
	if h := c.Highlight(); h.Focus != "c" || !h.Edges["e2"] {
		t.Errorf("selection should drive the highlight after unhover: %+v", h)
	}
}

func TestControllerKeepsStateOnSetGraph(t *testing.T) {
	c, _, _ := newTestController()
	c.Wheel(2)
	c.Click("a")
	zoom := c.State().Zoom

	c.SetGraph([]graph.Node{{ID: "b"}}, nil)
	if c.State().Zoom != zoom || c.State().Selected != "a" {
		t.Errorf("state changed on relayout: %+v", c.State())
	}
	if c.Highlight().Active {
		t.Error("selection of a removed node should not highlight")
	}
}

func TestControllerEvents(t *testing.T) {
	c, panel, _ := newTestController()
	events := []Event{
		{Type: EventPointerDown, X: 0, Y: 0},
		{Type: EventPointerMove, X: 30, Y: 40},
		{Type: EventPointerUp},
		{Type: EventKey, Key: "+"},
		{Type: EventAction, Action: "zoom-out"},
		{Type: EventWheel, Delta: 1},
		{Type: EventHover, Node: "a"},
		{Type: EventClick, Node: "b"},
	}
	for _, e := range events {
		if err := c.HandleEvent(e); err != nil {
			t.Fatalf("HandleEvent(%+v): %v", e, err)
		}
	}

	s := c.State()
	if s.Pan != (Point{X: 30, Y: 40}) {
		t.Errorf("Pan = %+v", s.Pan)
	}
	if !almostEqual(s.Zoom, 1+ZoomStep) {
		t.Errorf("Zoom = %v, want %v", s.Zoom, 1+ZoomStep)
	}
	if s.Hovered != "a" || s.Selected != "b" || !panel.open {
		t.Errorf("state = %+v, panel open = %v", s, panel.open)
	}

	if err := c.HandleEvent(Event{Type: EventDeselect}); err != nil {
		t.Fatal(err)
	}
	if c.State().Selected != "" || panel.open {
		t.Error("deselect event should clear the selection")
	}

	if err := c.HandleEvent(Event{Type: "teleport"}); err == nil {
		t.Error("unknown event type should fail")
	}
}

func TestControllerWheelSteps(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"fractional in", 0.5, 1 + ZoomStep},
		{"browser delta in", 100, 1 + ZoomStep},
		{"fractional out", -0.25, 1 - ZoomStep},
		{"browser delta out", -100, 1 - ZoomStep},
		{"zero", 0, 1},
		{"nan", math.NaN(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController()
			if err := c.HandleEvent(Event{Type: EventWheel, Delta: tt.delta}); err != nil {
				t.Fatal(err)
			}
			if got := c.State().Zoom; !almostEqual(got, tt.want) {
				t.Errorf("zoom after wheel %v = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}

	c, _, _ := newTestController()
	for range 20 {
		c.Wheel(100)
	}
	if got := c.State().Zoom; !almostEqual(got, MaxZoom) {
		t.Errorf("zoom after 20 wheel steps = %v, want %v", got, MaxZoom)
	}
}

func TestControllerWithoutCollaborators(t *testing.T) {
	c := NewController()
	c.SetGraph([]graph.Node{{ID: "a"}}, nil)
	c.Click("a")
	c.Click("a")
	if c.State().Selected != "" {
		t.Error("toggle without panel failed")
	}
}
