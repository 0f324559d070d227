package interaction

import (
	"fmt"

	"github.com/matzehuels/kbgraph/pkg/graph"
)

// DetailPanel shows a selected node. onNavigate selects another node
// through the same path as a click; onClose clears the selection.
type DetailPanel interface {
	Open(node graph.Node, related []graph.Edge, all []graph.Node, onClose func(), onNavigate func(graph.Node))
	Close()
}

// Controller owns the interaction state of one surface and the index of the
// graph currently shown on it. It is not safe for concurrent use; callers
// drive it from a single event loop.
type Controller struct {
	// Panel is notified on selection changes. Optional.
	Panel DetailPanel

	// OnNodeClick is called when a click selects a node, not when it
	// deselects one. Optional.
	OnNodeClick func(graph.Node)

	state State
	nodes []graph.Node
	idx   *graph.Index
}

// NewController returns a controller with the initial state and an empty
// graph.
func NewController() *Controller {
	return &Controller{
		state: NewState(),
		idx:   graph.NewIndex(nil, nil),
	}
}

// SetGraph replaces the graph. The interaction state is kept: a selection
// of a node that disappeared simply stops highlighting.
func (c *Controller) SetGraph(nodes []graph.Node, edges []graph.Edge) {
	c.nodes = nodes
	c.idx = graph.NewIndex(nodes, edges)
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Index returns the index of the current graph.
func (c *Controller) Index() *graph.Index { return c.idx }

// Highlight returns the highlight set for the current focus.
func (c *Controller) Highlight() HighlightSet { return Highlight(c.state, c.idx) }

// Apply runs a view action.
func (c *Controller) Apply(a Action) { c.state = Apply(c.state, a) }

// Key runs the action bound to key and reports whether one was bound.
func (c *Controller) Key(key string) bool {
	a := KeyAction(key)
	c.Apply(a)
	return a != ActionNone
}

// Wheel zooms one step per event in the direction of delta; positive zooms
// in. The magnitude is ignored so raw browser deltas cannot skip steps. Zero
// and NaN leave the zoom unchanged.
func (c *Controller) Wheel(delta float64) {
	switch {
	case delta > 0:
		c.state = ZoomIn(c.state)
	case delta < 0:
		c.state = ZoomOut(c.state)
	}
}

func (c *Controller) PointerDown(p Point, onNode string) {
	c.state = PointerDown(c.state, p, onNode)
}

func (c *Controller) PointerMove(p Point) { c.state = PointerMove(c.state, p) }
func (c *Controller) PointerUp()          { c.state = PointerUp(c.state) }
func (c *Controller) PointerLeave()       { c.state = PointerLeave(c.state) }

// Hover marks id as hovered. Unknown IDs are ignored.
func (c *Controller) Hover(id string) {
	if c.idx.Has(id) {
		c.state = Hover(c.state, id)
	}
}

func (c *Controller) Unhover() { c.state = Unhover(c.state) }

// Click toggles the selection of node id and notifies the panel and the
// click hook. Clicking an unknown node does nothing.
func (c *Controller) Click(id string) {
	node, ok := c.idx.Node(id)
	if !ok {
		return
	}
	c.state = Click(c.state, id)

	if c.state.Selected == "" {
		if c.Panel != nil {
			c.Panel.Close()
		}
		return
	}
	if c.Panel != nil {
		c.Panel.Open(node, c.idx.IncidentEdges(id), c.nodes, c.closePanel, c.navigate)
	}
	if c.OnNodeClick != nil {
		c.OnNodeClick(node)
	}
}

// Deselect clears the selection and closes the panel.
func (c *Controller) Deselect() {
	if c.state.Selected == "" {
		return
	}
	c.state.Selected = ""
	if c.Panel != nil {
		c.Panel.Close()
	}
}

func (c *Controller) navigate(n graph.Node) { c.Click(n.ID) }

// closePanel is handed to the panel; the panel closes itself.
func (c *Controller) closePanel() { c.state.Selected = "" }

// =============================================================================
// Events
// =============================================================================

// Event types accepted by HandleEvent.
const (
	EventPointerDown  = "pointerdown"
	EventPointerMove  = "pointermove"
	EventPointerUp    = "pointerup"
	EventPointerLeave = "pointerleave"
	EventHover        = "hover"
	EventUnhover      = "unhover"
	EventClick        = "click"
	EventKey          = "key"
	EventWheel        = "wheel"
	EventAction       = "action"
	EventDeselect     = "deselect"
)

// Event is a serialized input event, as posted by a remote surface.
type Event struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Node   string  `json:"node,omitempty"`
	Key    string  `json:"key,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Action string  `json:"action,omitempty"`
}

// HandleEvent dispatches e. It returns an error only for unknown types.
func (c *Controller) HandleEvent(e Event) error {
	p := Point{X: e.X, Y: e.Y}
	switch e.Type {
	case EventPointerDown:
		c.PointerDown(p, e.Node)
	case EventPointerMove:
		c.PointerMove(p)
	case EventPointerUp:
		c.PointerUp()
	case EventPointerLeave:
		c.PointerLeave()
	case EventHover:
		c.Hover(e.Node)
	case EventUnhover:
		c.Unhover()
	case EventClick:
		c.Click(e.Node)
	case EventKey:
		c.Key(e.Key)
	case EventWheel:
		c.Wheel(e.Delta)
	case EventAction:
		c.Apply(ParseAction(e.Action))
	case EventDeselect:
		c.Deselect()
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
