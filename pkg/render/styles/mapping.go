package styles

import (
	"math"

	"github.com/matzehuels/kbgraph/pkg/graph"
)

// Radius band for node circles.
const (
	MinRadius = 8.0
	MaxRadius = 28.0

	// radiusHalfDegree is the degree at which a node reaches half of the band.
	radiusHalfDegree = 9.0
)

// Stroke band for edge lines.
const (
	MinStroke = 1.0
	MaxStroke = 6.0
)

// Opacity levels for the highlight set.
const (
	FullOpacity = 1.0
	DimOpacity  = 0.15
)

// Node fill colors.
const (
	ColorDocument   = "#3b82f6"
	ColorTopic      = "#10b981"
	ColorPerson     = "#f59e0b"
	ColorTechnology = "#8b5cf6"
	ColorInsight    = "#ef4444"

	DefaultNodeColor = "#6b7280"
)

// NodeRadius maps a degree to a radius in [MinRadius, MaxRadius].
//
// The curve grows with the square root of the degree and saturates towards
// MaxRadius, so isolated nodes get MinRadius and hubs never exceed MaxRadius.
// Negative degrees are treated as zero.
func NodeRadius(degree int) float64 {
	d := float64(max(degree, 0))
	s := math.Sqrt(d) / math.Sqrt(radiusHalfDegree)
	frac := s / (1 + s)
	return MinRadius + (MaxRadius-MinRadius)*frac
}

// NodeColor returns the fill color for a node type.
func NodeColor(t graph.NodeType) string {
	switch t {
	case graph.TypeDocument:
		return ColorDocument
	case graph.TypeTopic:
		return ColorTopic
	case graph.TypePerson:
		return ColorPerson
	case graph.TypeTechnology:
		return ColorTechnology
	case graph.TypeInsight:
		return ColorInsight
	default:
		return DefaultNodeColor
	}
}

// NodeTypeLabel returns the legend caption for a node type.
func NodeTypeLabel(t graph.NodeType) string {
	switch t {
	case graph.TypeDocument:
		return "Document"
	case graph.TypeTopic:
		return "Topic"
	case graph.TypePerson:
		return "Person"
	case graph.TypeTechnology:
		return "Technology"
	case graph.TypeInsight:
		return "Insight"
	default:
		return "Other"
	}
}

// EdgeStrokeWidth maps an edge weight to a stroke width in [MinStroke, MaxStroke].
// Non-positive or non-finite weights use graph.DefaultWeight.
func EdgeStrokeWidth(weight float64) float64 {
	w := graph.Edge{Weight: weight}.EffectiveWeight()
	frac := w / (1 + w)
	return MinStroke + (MaxStroke-MinStroke)*frac
}

// EdgeMidpoint returns the arithmetic midpoint of a and b.
func EdgeMidpoint(a, b graph.Position) graph.Position {
	return graph.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Opacity returns the render opacity of an element. Without an active focus
// everything is drawn at full opacity.
func Opacity(highlighted, focusActive bool) float64 {
	if !focusActive || highlighted {
		return FullOpacity
	}
	return DimOpacity
}
