package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Index is an arena of nodes keyed by ID plus the flat edge list.
// All relationships are ID lookups; adjacency is recomputed by scanning edges.
//
// Construction never fails: duplicate node or edge IDs keep their first
// occurrence, and edges with an unknown endpoint are set aside as dropped.
type Index struct {
	nodes    []Node
	byID     map[string]int
	edges    []Edge // resolved edges, input order
	dropped  []Edge
	degrees  map[string]int
	incident map[string][]int // nodeID -> indices into edges
}

// NewIndex builds an index over nodes and edges. The input slices are not
// retained or modified.
func NewIndex(nodes []Node, edges []Edge) *Index {
	idx := &Index{
		nodes:    make([]Node, 0, len(nodes)),
		byID:     make(map[string]int, len(nodes)),
		degrees:  make(map[string]int, len(nodes)),
		incident: make(map[string][]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := idx.byID[n.ID]; dup {
			continue
		}
		idx.byID[n.ID] = len(idx.nodes)
		idx.nodes = append(idx.nodes, n)
		idx.degrees[n.ID] = 0
	}

	seen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		if e.ID != "" {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
		}
		if !idx.Has(e.Source) || !idx.Has(e.Target) {
			idx.dropped = append(idx.dropped, e)
			continue
		}
		i := len(idx.edges)
		idx.edges = append(idx.edges, e)
		// A self-loop counts twice: once as source, once as target.
		idx.degrees[e.Source]++
		idx.degrees[e.Target]++
		idx.incident[e.Source] = append(idx.incident[e.Source], i)
		if e.Target != e.Source {
			idx.incident[e.Target] = append(idx.incident[e.Target], i)
		}
	}

	return idx
}

// Has reports whether a node with the given ID exists.
func (x *Index) Has(id string) bool {
	_, ok := x.byID[id]
	return ok
}

// Node returns the node with the given ID.
func (x *Index) Node(id string) (Node, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Node{}, false
	}
	return x.nodes[i], true
}

// Nodes returns the deduplicated nodes in input order.
func (x *Index) Nodes() []Node { return slices.Clone(x.nodes) }

// NodeCount returns the number of distinct nodes.
func (x *Index) NodeCount() int { return len(x.nodes) }

// ResolvedEdges returns edges whose source and target both exist, in input order.
func (x *Index) ResolvedEdges() []Edge { return slices.Clone(x.edges) }

// DroppedEdges returns edges excluded because an endpoint is missing.
func (x *Index) DroppedEdges() []Edge { return slices.Clone(x.dropped) }

// EdgeCount returns the number of resolved edges.
func (x *Index) EdgeCount() int { return len(x.edges) }

// Degree returns the number of resolved edges where id is source or target.
func (x *Index) Degree(id string) int { return x.degrees[id] }

// Degrees returns the degree of every node.
func (x *Index) Degrees() map[string]int {
	out := make(map[string]int, len(x.degrees))
	for k, v := range x.degrees {
		out[k] = v
	}
	return out
}

// IncidentEdges returns the resolved edges touching id, in input order.
func (x *Index) IncidentEdges(id string) []Edge {
	ids := x.incident[id]
	out := make([]Edge, len(ids))
	for i, ei := range ids {
		out[i] = x.edges[ei]
	}
	return out
}

// Neighbors returns the IDs of nodes reachable from id through one resolved
// edge, without duplicates, in edge order. A self-loop lists id itself.
func (x *Index) Neighbors(id string) []string {
	var out []string
	for _, ei := range x.incident[id] {
		other := x.edges[ei].Other(id)
		if !slices.Contains(out, other) {
			out = append(out, other)
		}
	}
	return out
}

// =============================================================================
// Statistics
// =============================================================================

// Stats summarizes a graph for status lines and the stats endpoint.
type Stats struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	DroppedEdges int     `json:"dropped_edges"`
	AvgDegree    float64 `json:"avg_degree"`
	MaxDegree    int     `json:"max_degree"`
	Density      float64 `json:"density"`
}

// Stats computes degree-based statistics for the indexed graph.
func (x *Index) Stats() Stats {
	s := Stats{
		NodeCount:    len(x.nodes),
		EdgeCount:    len(x.edges),
		DroppedEdges: len(x.dropped),
	}
	if s.NodeCount == 0 {
		return s
	}
	total := 0
	for _, d := range x.degrees {
		total += d
		s.MaxDegree = max(s.MaxDegree, d)
	}
	s.AvgDegree = float64(total) / float64(s.NodeCount)
	if s.NodeCount > 1 {
		s.Density = float64(2*s.EdgeCount) / float64(s.NodeCount*(s.NodeCount-1))
	}
	return s
}

// =============================================================================
// Identity
// =============================================================================

// IdentityKey returns an order-independent hash of the node ID set and the
// edge (id, source, target) set. Labels, weights and positions do not
// participate: two graphs with the same key need no relayout.
func IdentityKey(nodes []Node, edges []Edge) string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	slices.Sort(ids)

	links := make([]string, 0, len(edges))
	for _, e := range edges {
		links = append(links, e.ID+"\x1f"+e.Source+"\x1f"+e.Target)
	}
	slices.Sort(links)

	h := sha256.New()
	h.Write([]byte(strings.Join(ids, "\x1e")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(links, "\x1e")))
	return hex.EncodeToString(h.Sum(nil))
}
