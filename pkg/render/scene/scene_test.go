package scene

import (
	"testing"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

func at(n graph.Node, x, y float64) graph.Node {
	return n.WithPosition(graph.Position{X: x, Y: y})
}

func TestBuildScenarioA(t *testing.T) {
	nodes := layout.Compute(
		[]graph.Node{{ID: "a"}, {ID: "b"}},
		[]graph.Edge{{ID: "e1", Source: "a", Target: "b", Weight: 1}},
		900, 600,
	)
	s := Build(nodes, []graph.Edge{{ID: "e1", Source: "a", Target: "b", Weight: 1}}, interaction.NewState(), Options{Width: 900, Height: 600})

	if len(s.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(s.Nodes))
	}
	if len(s.Edges) != 1 || s.Edges[0].ID != "e1" {
		t.Errorf("edges = %+v, want exactly e1", s.Edges)
	}
	if s.Empty {
		t.Error("scene with nodes marked empty")
	}
}

func TestBuildScenarioB(t *testing.T) {
	nodes := []graph.Node{at(graph.Node{ID: "a"}, 100, 100), at(graph.Node{ID: "b"}, 200, 200)}
	edges := []graph.Edge{{ID: "e2", Source: "a", Target: "missing"}}

	s := Build(nodes, edges, interaction.NewState(), Options{Width: 900, Height: 600})
	if len(s.Edges) != 0 {
		t.Errorf("edges = %+v, want none", s.Edges)
	}
	if s.Stats.DroppedEdges != 1 {
		t.Errorf("dropped = %d, want 1", s.Stats.DroppedEdges)
	}
}

func TestBuildRenderedEdgesResolve(t *testing.T) {
	g := graph.SampleGraph()
	nodes := layout.Compute(g.Nodes, g.Edges, 900, 600, layout.WithIterations(50))
	// Drop one node's position: its edges must disappear with it.
	nodes[0].Position = nil
	edges := append(g.Edges, graph.Edge{ID: "ghost", Source: "nope", Target: g.Nodes[1].ID})

	s := Build(nodes, edges, interaction.NewState(), Options{Width: 900, Height: 600})
	drawn := map[string]bool{}
	for _, n := range s.Nodes {
		drawn[n.ID] = true
	}
	for _, e := range s.Edges {
		if !drawn[e.SourceID] || !drawn[e.TargetID] {
			t.Errorf("edge %q drawn without both endpoints", e.ID)
		}
	}
	if drawn[g.Nodes[0].ID] {
		t.Error("unpositioned node was drawn")
	}
}

func TestBuildScenarioCHover(t *testing.T) {
	nodes := []graph.Node{
		at(graph.Node{ID: "a"}, 100, 100),
		at(graph.Node{ID: "b"}, 300, 100),
		at(graph.Node{ID: "c"}, 500, 100),
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Weight: 1, Label: "82%"},
		{ID: "e2", Source: "b", Target: "c", Weight: 1, Label: "40%"},
	}
	state := interaction.Hover(interaction.NewState(), "a")
	s := Build(nodes, edges, state, Options{Width: 900, Height: 600})

	if s.Focus != "a" {
		t.Errorf("Focus = %q, want a", s.Focus)
	}
	byID := map[string]styles.Node{}
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}
	if byID["b"].Opacity != styles.FullOpacity || byID["a"].Opacity != styles.FullOpacity {
		t.Error("focus and neighbor should be at full opacity")
	}
	if byID["c"].Opacity != styles.DimOpacity {
		t.Errorf("c opacity = %v, want dimmed", byID["c"].Opacity)
	}
	if !byID["a"].Focused {
		t.Error("hovered node not marked focused")
	}

	// Highlighted items are drawn last.
	last := s.Edges[len(s.Edges)-1]
	if last.ID != "e1" || !last.Highlighted || !last.ShowLabel {
		t.Errorf("last edge = %+v, want highlighted e1 with label", last)
	}
	for _, e := range s.Edges {
		if e.ID == "e2" && (e.ShowLabel || e.Opacity != styles.DimOpacity) {
			t.Errorf("e2 = %+v, want dimmed without label", e)
		}
	}
	if last.LabelX != 200 || last.LabelY != 100 {
		t.Errorf("label anchor = (%v, %v), want midpoint (200, 100)", last.LabelX, last.LabelY)
	}
}

func TestBuildNoFocusFullOpacity(t *testing.T) {
	nodes := []graph.Node{at(graph.Node{ID: "a"}, 1, 1), at(graph.Node{ID: "b"}, 2, 2)}
	s := Build(nodes, []graph.Edge{{ID: "e", Source: "a", Target: "b", Label: "x"}}, interaction.NewState(), Options{})
	for _, n := range s.Nodes {
		if n.Opacity != styles.FullOpacity {
			t.Errorf("node %q opacity = %v", n.ID, n.Opacity)
		}
	}
	if s.Edges[0].ShowLabel {
		t.Error("edge label visible without focus")
	}
}

func TestBuildMappings(t *testing.T) {
	nodes := []graph.Node{
		at(graph.Node{ID: "hub", Label: "A very long hub label that needs truncation", Type: graph.TypeTopic, DocumentCount: 7}, 10, 10),
		at(graph.Node{ID: "x", Type: "planet"}, 20, 20),
		at(graph.Node{ID: "y", Type: graph.TypePerson, DocumentCount: -2}, 30, 30),
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "hub", Target: "x", Weight: 5},
		{ID: "e2", Source: "hub", Target: "y", Weight: 0},
	}
	s := Build(nodes, edges, interaction.NewState(), Options{LabelBudget: 10})

	byID := map[string]styles.Node{}
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}
	hub := byID["hub"]
	if hub.R != styles.NodeRadius(2) || hub.Fill != styles.ColorTopic || hub.Badge != 7 {
		t.Errorf("hub = %+v", hub)
	}
	if hub.Label != "A very lo…" || hub.FullLabel != nodes[0].Label {
		t.Errorf("hub label = %q / %q", hub.Label, hub.FullLabel)
	}
	if byID["x"].Fill != styles.DefaultNodeColor {
		t.Errorf("unknown type fill = %q", byID["x"].Fill)
	}
	if byID["x"].Label != "x" {
		t.Errorf("label fallback = %q, want node ID", byID["x"].Label)
	}
	if byID["y"].Badge != 0 {
		t.Error("negative document count should hide the badge")
	}
	for _, e := range s.Edges {
		want := styles.EdgeStrokeWidth(5)
		if e.ID == "e2" {
			want = styles.EdgeStrokeWidth(graph.DefaultWeight)
		}
		if e.Width != want {
			t.Errorf("edge %q width = %v, want %v", e.ID, e.Width, want)
		}
	}
}

func TestBuildLegend(t *testing.T) {
	nodes := []graph.Node{
		at(graph.Node{ID: "1", Type: graph.TypeInsight}, 0, 0),
		at(graph.Node{ID: "2", Type: graph.TypeDocument}, 0, 0),
		at(graph.Node{ID: "3", Type: "mystery"}, 0, 0),
		at(graph.Node{ID: "4", Type: graph.TypeDocument}, 0, 0),
	}
	s := Build(nodes, nil, interaction.NewState(), Options{})

	want := []string{"Document", "Insight", "Other"}
	if len(s.Legend) != len(want) {
		t.Fatalf("legend = %+v", s.Legend)
	}
	for i, l := range s.Legend {
		if l.Label != want[i] {
			t.Errorf("legend[%d] = %q, want %q", i, l.Label, want[i])
		}
	}
	if s.Legend[0].Count != 2 {
		t.Errorf("document count = %d, want 2", s.Legend[0].Count)
	}

	if got := Build(nodes, nil, interaction.NewState(), Options{HideLegend: true, HideControls: true}); got.Legend != nil || got.Controls != nil {
		t.Error("hidden legend/controls should be nil")
	}
}

func TestBuildFlags(t *testing.T) {
	s := Build(nil, nil, interaction.NewState(), Options{Width: 900, Height: 600, Busy: true, Demo: true})
	if !s.Empty || !s.Busy || !s.Demo {
		t.Errorf("flags = empty:%v busy:%v demo:%v", s.Empty, s.Busy, s.Demo)
	}
	if s.Nodes == nil || s.Edges == nil {
		t.Error("empty scene should have non-nil slices")
	}
}

func TestTransformAndHitTest(t *testing.T) {
	nodes := []graph.Node{at(graph.Node{ID: "a"}, 100, 100)}
	state := interaction.NewState()
	state.Pan = interaction.Point{X: 50, Y: 0}
	state.Zoom = 2

	s := Build(nodes, nil, state, Options{Width: 900, Height: 600})
	if got := s.Transform.SVG(); got != "translate(50.00 0.00) scale(2.000)" {
		t.Errorf("SVG() = %q", got)
	}
	x, y := s.Transform.Apply(100, 100)
	if x != 250 || y != 200 {
		t.Errorf("Apply = (%v, %v), want (250, 200)", x, y)
	}
	if got := s.NodeAt(250, 200); got != "a" {
		t.Errorf("NodeAt(center) = %q, want a", got)
	}
	if got := s.NodeAt(10, 10); got != "" {
		t.Errorf("NodeAt(background) = %q, want empty", got)
	}

	c := s.Controls[0]
	if got := s.ControlAt(c.X+1, c.Y+1); got != interaction.ActionZoomIn.String() {
		t.Errorf("ControlAt = %q, want zoom-in", got)
	}
}
