package styles

import "bytes"

// Style defines the visual appearance of a graph surface.
// Implementations control how nodes, edges and labels are drawn.
type Style interface {
	// Name returns the style identifier used in options and cache keys.
	Name() string
	// Palette returns the non-node colors of the style.
	Palette() Palette
	// RenderDefs writes SVG <defs> content (filters, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderEdge writes the SVG for one edge line and its optional label.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderNode writes the SVG for one node circle and its badge.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderLabel writes the SVG for one node label.
	RenderLabel(buf *bytes.Buffer, n Node)
}

// Palette holds the surface colors a style draws with.
type Palette struct {
	Background string
	Edge       string
	EdgeActive string
	Text       string
	MutedText  string
	Panel      string
	PanelText  string
	Stroke     string // node outline
	Focus      string // outline of the focused node
}

// Node contains all data needed to render a single node.
type Node struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`      // truncated display text
	FullLabel   string  `json:"full_label"` // untruncated text (tooltip)
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	R           float64 `json:"r"`
	Fill        string  `json:"fill"`
	Opacity     float64 `json:"opacity"`
	Badge       int     `json:"badge,omitempty"` // document count, 0 hides the badge
	Highlighted bool    `json:"highlighted,omitempty"`
	Focused     bool    `json:"focused,omitempty"`
	Selected    bool    `json:"selected,omitempty"`
}

// Edge contains positioning data for rendering an edge.
type Edge struct {
	ID          string  `json:"id"`
	SourceID    string  `json:"source"`
	TargetID    string  `json:"target"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Width       float64 `json:"width"`
	Opacity     float64 `json:"opacity"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Label       string  `json:"label,omitempty"`
	LabelX      float64 `json:"label_x"`
	LabelY      float64 `json:"label_y"`
	ShowLabel   bool    `json:"show_label,omitempty"`
}

// ByName returns the style registered under name, or Simple for unknown names.
func ByName(name string) Style {
	switch name {
	case StyleDark:
		return Dark{}
	default:
		return Simple{}
	}
}

// Style names.
const (
	StyleSimple = "simple"
	StyleDark   = "dark"
)

// ValidStyles is the set of supported style names.
var ValidStyles = map[string]bool{
	StyleSimple: true,
	StyleDark:   true,
}
