package graph

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// =============================================================================
// Node Types - Closed Variant
// =============================================================================

// NodeType is the kind of a knowledge-graph node.
// The set is closed; every consumer must handle unknown values with a default.
type NodeType string

// Node types.
const (
	TypeDocument   NodeType = "document"
	TypeTopic      NodeType = "topic"
	TypePerson     NodeType = "person"
	TypeTechnology NodeType = "technology"
	TypeInsight    NodeType = "insight"
)

// NodeTypes lists the known node types in legend order.
var NodeTypes = []NodeType{TypeDocument, TypeTopic, TypePerson, TypeTechnology, TypeInsight}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	return slices.Contains(NodeTypes, t)
}

// ParseNodeType normalizes s into a NodeType. Unknown values are returned
// as-is (lowercased) so they round-trip; callers check Valid.
func ParseNodeType(s string) NodeType {
	return NodeType(strings.ToLower(strings.TrimSpace(s)))
}

// =============================================================================
// Position
// =============================================================================

// Position is a point on the layout canvas.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Finite reports whether both coordinates are real numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// =============================================================================
// Graph - Knowledge Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for knowledge graphs.
// It is what a data adapter hands to the visualization engine.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// =============================================================================
// Node
// =============================================================================

// Node is a labeled point in the knowledge graph.
type Node struct {
	ID            string    `json:"id" bson:"id"`
	Label         string    `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Type          NodeType  `json:"type,omitempty" bson:"type,omitempty"`
	DocumentCount int       `json:"documentCount,omitempty" bson:"document_count,omitempty"`
	Summary       string    `json:"summary,omitempty" bson:"summary,omitempty"`
	Topics        []string  `json:"topics,omitempty" bson:"topics,omitempty"`
	Position      *Position `json:"position,omitempty" bson:"position,omitempty"` // nil before the first layout pass
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Positioned reports whether the layout engine has assigned a position.
func (n *Node) Positioned() bool { return n.Position != nil }

// WithPosition returns a copy of n placed at p.
func (n Node) WithPosition(p Position) Node {
	n.Position = &p
	return n
}

// =============================================================================
// Edge
// =============================================================================

// DefaultWeight is the weight of an edge that carries none.
const DefaultWeight = 1.0

// Edge is a weighted connection between two node IDs. It is directed in
// storage but rendered undirected.
type Edge struct {
	ID     string  `json:"id" bson:"id"`
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"` // shown only when highlighted
}

// EffectiveWeight returns the weight, or DefaultWeight when it is not a
// positive finite number.
func (e Edge) EffectiveWeight() float64 {
	if e.Weight <= 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
		return DefaultWeight
	}
	return e.Weight
}

// Touches reports whether id is the source or target of e.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Other returns the endpoint of e opposite to id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// =============================================================================
// Copy Helpers
// =============================================================================

// CloneNodes returns a deep copy of nodes, including positions and topics.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		n.Topics = slices.Clone(n.Topics)
		out[i] = n
	}
	return out
}

// Positions extracts the assigned positions of nodes keyed by ID.
// Nodes without a position are skipped.
func Positions(nodes []Node) map[string]Position {
	out := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		if n.Position != nil {
			out[n.ID] = *n.Position
		}
	}
	return out
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
