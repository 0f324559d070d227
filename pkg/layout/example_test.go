package layout_test

import (
	"fmt"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/layout"
)

func ExampleCompute() {
	nodes := []graph.Node{
		{ID: "a", Label: "Vector search", Type: graph.TypeTechnology},
		{ID: "b", Label: "Onboarding guide", Type: graph.TypeDocument},
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Weight: 0.8},
		{ID: "e2", Source: "a", Target: "missing"}, // ignored
	}

	positioned := layout.Compute(nodes, edges, 900, 600)
	bounds := layout.NewBounds(900, 600, layout.DefaultPadding)
	for _, n := range positioned {
		fmt.Println(n.ID, bounds.Contains(*n.Position))
	}
	// Output:
	// a true
	// b true
}

func ExampleWithPrior() {
	g := graph.SampleGraph()
	first := layout.Compute(g.Nodes, g.Edges, 900, 600)

	// Relayout after a resize, starting from the previous positions.
	second := layout.Compute(g.Nodes, g.Edges, 1200, 700, layout.WithPrior(graph.Positions(first)))
	fmt.Println(len(second) == len(g.Nodes))
	// Output: true
}
