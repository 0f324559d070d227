package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Graph Snapshot
// =============================================================================

// Layout is the serialization format for one completed layout pass.
//
// It carries the canvas bounds the pass was computed for, the seed that made
// it reproducible, and every node with its assigned position. Edges are the
// resolved edges only; unresolved edges never reach a layout.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Seed   uint64  `json:"seed,omitempty" bson:"seed,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	// Identity is the IdentityKey of the graph this layout was computed for.
	Identity string `json:"identity,omitempty" bson:"identity,omitempty"`
}

// Graph returns the positioned graph contained in the layout.
func (l Layout) Graph() Graph { return Graph{Nodes: l.Nodes, Edges: l.Edges} }

// Validate checks that every node is positioned inside the layout bounds.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout bounds must be positive, got %.0fx%.0f", l.Width, l.Height)
	}
	for _, n := range l.Nodes {
		if n.Position == nil {
			return fmt.Errorf("node %s has no position", n.ID)
		}
		p := *n.Position
		if !p.Finite() || p.X < 0 || p.X > l.Width || p.Y < 0 || p.Y > l.Height {
			return fmt.Errorf("node %s at (%.1f, %.1f) is outside %.0fx%.0f", n.ID, p.X, p.Y, l.Width, l.Height)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
