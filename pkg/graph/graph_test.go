package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestIndexDegrees(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		edges   []Edge
		want    map[string]int
		dropped int
	}{
		{
			name:  "Empty",
			nodes: nil,
			edges: nil,
			want:  map[string]int{},
		},
		{
			name:  "SingleEdge",
			nodes: []Node{{ID: "a"}, {ID: "b"}},
			edges: []Edge{{ID: "e1", Source: "a", Target: "b", Weight: 1}},
			want:  map[string]int{"a": 1, "b": 1},
		},
		{
			name:    "MissingEndpoint",
			nodes:   []Node{{ID: "a"}, {ID: "b"}},
			edges:   []Edge{{ID: "e2", Source: "a", Target: "missing"}},
			want:    map[string]int{"a": 0, "b": 0},
			dropped: 1,
		},
		{
			name:  "SelfLoopCountsTwice",
			nodes: []Node{{ID: "a"}},
			edges: []Edge{{ID: "loop", Source: "a", Target: "a"}},
			want:  map[string]int{"a": 2},
		},
		{
			name:  "DuplicateEdgeID",
			nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			edges: []Edge{
				{ID: "e1", Source: "a", Target: "b"},
				{ID: "e1", Source: "a", Target: "c"},
			},
			want: map[string]int{"a": 1, "b": 1, "c": 0},
		},
		{
			name:  "DuplicateNodeIDFirstWins",
			nodes: []Node{{ID: "a", Label: "first"}, {ID: "a", Label: "second"}, {ID: "b"}},
			edges: []Edge{{ID: "e1", Source: "a", Target: "b"}},
			want:  map[string]int{"a": 1, "b": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndex(tt.nodes, tt.edges)
			got := idx.Degrees()
			if len(got) != len(tt.want) {
				t.Fatalf("Degrees() has %d entries, want %d", len(got), len(tt.want))
			}
			for id, d := range tt.want {
				if got[id] != d {
					t.Errorf("Degree(%s) = %d, want %d", id, got[id], d)
				}
			}
			if n := len(idx.DroppedEdges()); n != tt.dropped {
				t.Errorf("DroppedEdges() = %d, want %d", n, tt.dropped)
			}
		})
	}
}

func TestIndexDegreeSumIsTwiceEdges(t *testing.T) {
	g := SampleGraph()
	idx := NewIndex(g.Nodes, g.Edges)

	sum := 0
	for _, d := range idx.Degrees() {
		sum += d
	}
	if sum != 2*idx.EdgeCount() {
		t.Errorf("sum of degrees = %d, want %d", sum, 2*idx.EdgeCount())
	}
	if idx.EdgeCount() != len(g.Edges) {
		t.Errorf("sample graph has unresolved edges: %d of %d resolved", idx.EdgeCount(), len(g.Edges))
	}
}

func TestIndexFirstNodeWins(t *testing.T) {
	idx := NewIndex([]Node{{ID: "a", Label: "first"}, {ID: "a", Label: "second"}}, nil)
	n, ok := idx.Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.Label != "first" {
		t.Errorf("Label = %q, want first", n.Label)
	}
	if idx.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", idx.NodeCount())
	}
}

func TestIndexNeighborsAndIncident(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "c", Target: "a"},
		{ID: "e3", Source: "b", Target: "c"},
		{ID: "e4", Source: "a", Target: "ghost"},
	}
	idx := NewIndex(nodes, edges)

	inc := idx.IncidentEdges("a")
	if len(inc) != 2 || inc[0].ID != "e1" || inc[1].ID != "e2" {
		t.Errorf("IncidentEdges(a) = %v, want [e1 e2]", inc)
	}

	nb := idx.Neighbors("a")
	if len(nb) != 2 || nb[0] != "b" || nb[1] != "c" {
		t.Errorf("Neighbors(a) = %v, want [b c]", nb)
	}

	if got := idx.Neighbors("d"); len(got) != 0 {
		t.Errorf("Neighbors(d) = %v, want empty", got)
	}
}

func TestIndexStats(t *testing.T) {
	idx := NewIndex(
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Edge{{ID: "e1", Source: "a", Target: "b"}, {ID: "e2", Source: "a", Target: "x"}},
	)
	s := idx.Stats()
	if s.NodeCount != 3 || s.EdgeCount != 1 || s.DroppedEdges != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.MaxDegree != 1 {
		t.Errorf("MaxDegree = %d, want 1", s.MaxDegree)
	}
	if want := 2.0 / 3.0; s.AvgDegree != want {
		t.Errorf("AvgDegree = %v, want %v", s.AvgDegree, want)
	}
}

func TestIdentityKey(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}
	edges := []Edge{{ID: "e1", Source: "a", Target: "b"}}

	k1 := IdentityKey(nodes, edges)
	k2 := IdentityKey([]Node{{ID: "b", Label: "renamed"}, {ID: "a"}}, []Edge{{ID: "e1", Source: "a", Target: "b", Weight: 5}})
	if k1 != k2 {
		t.Error("IdentityKey should ignore order, labels and weights")
	}

	k3 := IdentityKey(append(nodes, Node{ID: "c"}), edges)
	if k1 == k3 {
		t.Error("IdentityKey should change when a node is added")
	}

	k4 := IdentityKey(nodes, []Edge{{ID: "e1", Source: "b", Target: "a"}})
	if k1 == k4 {
		t.Error("IdentityKey should change when an edge is rewired")
	}
}

func TestEdgeEffectiveWeight(t *testing.T) {
	tests := []struct {
		weight float64
		want   float64
	}{
		{0, 1},
		{-3, 1},
		{0.5, 0.5},
		{12, 12},
	}
	for _, tt := range tests {
		if got := (Edge{Weight: tt.weight}).EffectiveWeight(); got != tt.want {
			t.Errorf("EffectiveWeight(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestNodeTypeValid(t *testing.T) {
	for _, nt := range NodeTypes {
		if !nt.Valid() {
			t.Errorf("%s should be valid", nt)
		}
	}
	if NodeType("meeting").Valid() {
		t.Error("meeting should not be valid")
	}
	if got := ParseNodeType("  Topic "); got != TypeTopic {
		t.Errorf("ParseNodeType = %q, want topic", got)
	}
}

func TestCloneNodesDeepCopiesPositions(t *testing.T) {
	orig := []Node{(Node{ID: "a"}).WithPosition(Position{X: 1, Y: 2})}
	cp := CloneNodes(orig)
	cp[0].Position.X = 99
	if orig[0].Position.X != 1 {
		t.Error("CloneNodes should not share positions")
	}
}

func TestReadWriteGraph(t *testing.T) {
	g := SampleGraph()

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if !strings.Contains(buf.String(), `"documentCount"`) {
		t.Error("expected camelCase documentCount in JSON output")
	}

	back, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if len(back.Nodes) != len(g.Nodes) || len(back.Edges) != len(g.Edges) {
		t.Errorf("got %d nodes/%d edges, want %d/%d", len(back.Nodes), len(back.Edges), len(g.Nodes), len(g.Edges))
	}
}

func TestWriteGraphEmptyUsesArrays(t *testing.T) {
	data, err := MarshalGraph(Graph{})
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !strings.Contains(string(data), `"nodes": []`) {
		t.Errorf("empty graph should encode nodes as [], got %s", data)
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLayoutValidate(t *testing.T) {
	ok := Layout{
		Width: 100, Height: 100,
		Nodes: []Node{(Node{ID: "a"}).WithPosition(Position{X: 50, Y: 50})},
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	outside := ok
	outside.Nodes = []Node{(Node{ID: "a"}).WithPosition(Position{X: 150, Y: 50})}
	if err := outside.Validate(); err == nil {
		t.Error("expected error for node outside bounds")
	}

	unplaced := ok
	unplaced.Nodes = []Node{{ID: "a"}}
	if err := unplaced.Validate(); err == nil {
		t.Error("expected error for node without position")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		Width: 900, Height: 600, Seed: 42,
		Nodes: []Node{(Node{ID: "a", Type: TypeTopic}).WithPosition(Position{X: 10, Y: 20})},
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.Seed != 42 || got.Nodes[0].Position.Y != 20 {
		t.Errorf("unexpected layout: %+v", got)
	}
}
