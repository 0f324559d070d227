package interaction

import "math"

// Zoom limits.
const (
	MinZoom  = 0.3
	MaxZoom  = 3.0
	ZoomStep = 0.15

	// PanStep is the distance one arrow key moves the view.
	PanStep = 40.0
)

// Point is a position in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mode is the pointer state of the surface.
type Mode int

const (
	Idle Mode = iota
	Panning
)

func (m Mode) String() string {
	if m == Panning {
		return "panning"
	}
	return "idle"
}

// State is the complete interaction state of one surface. Reducers take a
// State by value and return the next one.
type State struct {
	Pan      Point   `json:"pan"`
	Zoom     float64 `json:"zoom"`
	Hovered  string  `json:"hovered,omitempty"`
	Selected string  `json:"selected,omitempty"`
	Dragging bool    `json:"dragging"`
	DragFrom Point   `json:"-"`
}

// NewState returns the initial state: no pan, zoom 1, nothing focused.
func NewState() State {
	return State{Zoom: 1}
}

// Mode derives the pointer mode from the drag flag.
func (s State) Mode() Mode {
	if s.Dragging {
		return Panning
	}
	return Idle
}

// Focus returns the node driving highlights: the hovered node, else the
// selected node, else "".
func (s State) Focus() string {
	if s.Hovered != "" {
		return s.Hovered
	}
	return s.Selected
}

// =============================================================================
// Zoom
// =============================================================================

func clampZoom(z float64) float64 {
	return min(max(z, MinZoom), MaxZoom)
}

// ZoomIn raises the zoom by one step.
func ZoomIn(s State) State { return ZoomBy(s, ZoomStep) }

// ZoomOut lowers the zoom by one step.
func ZoomOut(s State) State { return ZoomBy(s, -ZoomStep) }

// ZoomBy adds delta to the zoom, clamped to [MinZoom, MaxZoom]. Non-finite
// deltas are ignored.
func ZoomBy(s State, delta float64) State {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return s
	}
	s.Zoom = clampZoom(s.Zoom + delta)
	return s
}

// ResetView restores zoom 1 and removes the pan offset. Hover and selection
// are kept.
func ResetView(s State) State {
	s.Pan = Point{}
	s.Zoom = 1
	return s
}

// PanBy moves the view by d.
func PanBy(s State, d Point) State {
	s.Pan = s.Pan.Add(d)
	return s
}

// =============================================================================
// Pointer
// =============================================================================

// PointerDown starts a drag at p unless the pointer landed on a node, in
// which case the press belongs to the node and the state is unchanged.
func PointerDown(s State, p Point, onNode string) State {
	if onNode != "" {
		return s
	}
	s.Dragging = true
	s.DragFrom = p
	return s
}

// PointerMove accumulates the move into the pan offset while dragging.
func PointerMove(s State, p Point) State {
	if !s.Dragging {
		return s
	}
	s.Pan = s.Pan.Add(p.Sub(s.DragFrom))
	s.DragFrom = p
	return s
}

// PointerUp ends a drag.
func PointerUp(s State) State {
	s.Dragging = false
	return s
}

// PointerLeave ends a drag when the pointer leaves the surface.
func PointerLeave(s State) State {
	s.Dragging = false
	return s
}

// =============================================================================
// Hover and selection
// =============================================================================

// Hover marks id as hovered.
func Hover(s State, id string) State {
	s.Hovered = id
	return s
}

// Unhover clears the hovered node.
func Unhover(s State) State {
	s.Hovered = ""
	return s
}

// Click toggles the selection: clicking the selected node deselects it,
// clicking any other node selects that one.
func Click(s State, id string) State {
	if s.Selected == id {
		s.Selected = ""
	} else {
		s.Selected = id
	}
	return s
}
