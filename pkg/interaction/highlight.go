package interaction

import "github.com/matzehuels/kbgraph/pkg/graph"

// HighlightSet holds the elements drawn at full opacity. When Active is
// false there is no focus and nothing is dimmed.
type HighlightSet struct {
	Focus  string
	Active bool
	Nodes  map[string]bool
	Edges  map[string]bool // keyed by EdgeKey
}

// HasNode reports whether node id is highlighted.
func (h HighlightSet) HasNode(id string) bool { return h.Nodes[id] }

// HasEdge reports whether e is highlighted.
func (h HighlightSet) HasEdge(e graph.Edge) bool { return h.Edges[EdgeKey(e)] }

// EdgeKey identifies an edge in a highlight set. Edges without an ID are
// keyed by their endpoints.
func EdgeKey(e graph.Edge) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}

// Highlight derives the highlight set of s over idx: the focus node, every
// resolved edge touching it, and the other endpoint of each such edge. A
// focus that is not in idx yields an inactive set.
func Highlight(s State, idx *graph.Index) HighlightSet {
	h := HighlightSet{
		Nodes: map[string]bool{},
		Edges: map[string]bool{},
	}
	focus := s.Focus()
	if focus == "" || idx == nil || !idx.Has(focus) {
		return h
	}

	h.Focus = focus
	h.Active = true
	h.Nodes[focus] = true
	for _, e := range idx.IncidentEdges(focus) {
		h.Edges[EdgeKey(e)] = true
		h.Nodes[e.Other(focus)] = true
	}
	return h
}
