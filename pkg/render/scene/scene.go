package scene

import (
	"fmt"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// Options configures Build.
type Options struct {
	Width  float64
	Height float64

	// LabelBudget is the maximum label length in runes. Zero uses
	// styles.LabelBudget.
	LabelBudget int

	// Busy marks a layout pass as pending.
	Busy bool
	// Demo marks the graph as locally generated sample data.
	Demo bool

	HideLegend   bool
	HideControls bool
}

// Transform is the pan and zoom applied to the drawable group.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// SVG returns the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%.2f %.2f) scale(%.3f)", t.X, t.Y, t.Scale)
}

// Apply maps a graph coordinate to a surface coordinate.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.X, y*t.Scale + t.Y
}

// Invert maps a surface coordinate to a graph coordinate.
func (t Transform) Invert(x, y float64) (float64, float64) {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return (x - t.X) / s, (y - t.Y) / s
}

// LegendEntry is one row of the type legend.
type LegendEntry struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Control is a zoom button drawn outside the pannable group.
type Control struct {
	Action string  `json:"action"`
	Symbol string  `json:"symbol"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
}

// Scene is a fully resolved, drawable view of a graph.
type Scene struct {
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Transform Transform         `json:"transform"`
	Edges     []styles.Edge     `json:"edges"` // draw order
	Nodes     []styles.Node     `json:"nodes"` // draw order
	Legend    []LegendEntry     `json:"legend,omitempty"`
	Controls  []Control         `json:"controls,omitempty"`
	Focus     string            `json:"focus,omitempty"`
	Selected  string            `json:"selected,omitempty"`
	Empty     bool              `json:"empty"`
	Busy      bool              `json:"busy"`
	Demo      bool              `json:"demo"`
	Stats     graph.Stats       `json:"stats"`
	State     interaction.State `json:"state"`
}

const (
	controlSize   = 28.0
	controlMargin = 12.0
	controlGap    = 6.0
)

// Build resolves nodes and edges into a scene. Only positioned nodes are
// drawn, and only edges whose endpoints are both drawn. Edges come before
// nodes in the output, and within each list dimmed items come before
// highlighted ones so highlights paint on top.
func Build(nodes []graph.Node, edges []graph.Edge, state interaction.State, opts Options) Scene {
	positioned := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Position != nil && n.Position.Finite() {
			positioned = append(positioned, n)
		}
	}
	idx := graph.NewIndex(positioned, edges)
	hl := interaction.Highlight(state, idx)

	budget := opts.LabelBudget
	if budget <= 0 {
		budget = styles.LabelBudget
	}

	s := Scene{
		Width:     opts.Width,
		Height:    opts.Height,
		Transform: Transform{X: state.Pan.X, Y: state.Pan.Y, Scale: state.Zoom},
		Edges:     buildEdges(idx, hl),
		Nodes:     buildNodes(idx, hl, state, budget),
		Focus:     hl.Focus,
		Selected:  state.Selected,
		Empty:     idx.NodeCount() == 0,
		Busy:      opts.Busy,
		Demo:      opts.Demo,
		Stats:     idx.Stats(),
		State:     state,
	}
	if s.Transform.Scale == 0 {
		s.Transform.Scale = 1
	}
	if !opts.HideLegend {
		s.Legend = buildLegend(idx.Nodes())
	}
	if !opts.HideControls {
		s.Controls = buildControls(opts.Width)
	}
	return s
}

func buildEdges(idx *graph.Index, hl interaction.HighlightSet) []styles.Edge {
	resolved := idx.ResolvedEdges()
	dimmed := make([]styles.Edge, 0, len(resolved))
	var lit []styles.Edge

	for _, e := range resolved {
		src, _ := idx.Node(e.Source)
		dst, _ := idx.Node(e.Target)
		a, b := *src.Position, *dst.Position
		mid := styles.EdgeMidpoint(a, b)
		on := hl.Active && hl.HasEdge(e)

		se := styles.Edge{
			ID:          interaction.EdgeKey(e),
			SourceID:    e.Source,
			TargetID:    e.Target,
			X1:          a.X,
			Y1:          a.Y,
			X2:          b.X,
			Y2:          b.Y,
			Width:       styles.EdgeStrokeWidth(e.Weight),
			Opacity:     styles.Opacity(on, hl.Active),
			Highlighted: on,
			Label:       e.Label,
			LabelX:      mid.X,
			LabelY:      mid.Y,
			ShowLabel:   on && e.Label != "",
		}
		if on {
			lit = append(lit, se)
		} else {
			dimmed = append(dimmed, se)
		}
	}
	return append(dimmed, lit...)
}

func buildNodes(idx *graph.Index, hl interaction.HighlightSet, state interaction.State, budget int) []styles.Node {
	all := idx.Nodes()
	dimmed := make([]styles.Node, 0, len(all))
	var lit []styles.Node

	for _, n := range all {
		on := hl.Active && hl.HasNode(n.ID)
		full := n.DisplayLabel()
		sn := styles.Node{
			ID:          n.ID,
			Label:       styles.TruncateLabel(full, budget),
			FullLabel:   full,
			Type:        string(n.Type),
			X:           n.Position.X,
			Y:           n.Position.Y,
			R:           styles.NodeRadius(idx.Degree(n.ID)),
			Fill:        styles.NodeColor(n.Type),
			Opacity:     styles.Opacity(on, hl.Active),
			Badge:       max(n.DocumentCount, 0),
			Highlighted: on,
			Focused:     n.ID == hl.Focus,
			Selected:    n.ID == state.Selected,
		}
		if on {
			lit = append(lit, sn)
		} else {
			dimmed = append(dimmed, sn)
		}
	}
	return append(dimmed, lit...)
}

// buildLegend lists the types present in nodes in their fixed order, with
// unknown types collected under one "Other" entry.
func buildLegend(nodes []graph.Node) []LegendEntry {
	counts := make(map[graph.NodeType]int)
	other := 0
	for _, n := range nodes {
		if n.Type.Valid() {
			counts[n.Type]++
		} else {
			other++
		}
	}

	var out []LegendEntry
	for _, t := range graph.NodeTypes {
		if c := counts[t]; c > 0 {
			out = append(out, LegendEntry{Type: string(t), Label: styles.NodeTypeLabel(t), Color: styles.NodeColor(t), Count: c})
		}
	}
	if other > 0 {
		out = append(out, LegendEntry{Type: "", Label: styles.NodeTypeLabel(""), Color: styles.DefaultNodeColor, Count: other})
	}
	return out
}

func buildControls(width float64) []Control {
	specs := []struct {
		action interaction.Action
		symbol string
	}{
		{interaction.ActionZoomIn, "+"},
		{interaction.ActionZoomOut, "−"},
		{interaction.ActionReset, "⟲"},
	}
	x := width - controlMargin - controlSize
	out := make([]Control, len(specs))
	for i, sp := range specs {
		out[i] = Control{
			Action: sp.action.String(),
			Symbol: sp.symbol,
			X:      x,
			Y:      controlMargin + float64(i)*(controlSize+controlGap),
			Size:   controlSize,
		}
	}
	return out
}

// NodeAt returns the topmost node under the surface point (x, y), or "".
func (s Scene) NodeAt(x, y float64) string {
	gx, gy := s.Transform.Invert(x, y)
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		dx, dy := gx-n.X, gy-n.Y
		if dx*dx+dy*dy <= n.R*n.R {
			return n.ID
		}
	}
	return ""
}

// ControlAt returns the action of the control under (x, y), or "".
func (s Scene) ControlAt(x, y float64) string {
	for _, c := range s.Controls {
		if x >= c.X && x <= c.X+c.Size && y >= c.Y && y <= c.Y+c.Size {
			return c.Action
		}
	}
	return ""
}
