package interaction

// Action is a discrete view command from a key or a control button.
type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionReset
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
)

var actionNames = map[Action]string{
	ActionNone:     "none",
	ActionZoomIn:   "zoom-in",
	ActionZoomOut:  "zoom-out",
	ActionReset:    "reset",
	ActionPanLeft:  "pan-left",
	ActionPanRight: "pan-right",
	ActionPanUp:    "pan-up",
	ActionPanDown:  "pan-down",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "none"
}

// ParseAction returns the action named s, or ActionNone.
func ParseAction(s string) Action {
	for a, name := range actionNames {
		if name == s {
			return a
		}
	}
	return ActionNone
}

// KeyAction maps a key name to an action. Unknown keys map to ActionNone.
func KeyAction(key string) Action {
	switch key {
	case "+", "=":
		return ActionZoomIn
	case "-", "_":
		return ActionZoomOut
	case "0":
		return ActionReset
	case "left", "h":
		return ActionPanLeft
	case "right", "l":
		return ActionPanRight
	case "up", "k":
		return ActionPanUp
	case "down", "j":
		return ActionPanDown
	default:
		return ActionNone
	}
}

// Apply runs a on s. Panning moves the view in the named direction, which
// shifts the drawing the opposite way.
func Apply(s State, a Action) State {
	switch a {
	case ActionZoomIn:
		return ZoomIn(s)
	case ActionZoomOut:
		return ZoomOut(s)
	case ActionReset:
		return ResetView(s)
	case ActionPanLeft:
		return PanBy(s, Point{X: PanStep})
	case ActionPanRight:
		return PanBy(s, Point{X: -PanStep})
	case ActionPanUp:
		return PanBy(s, Point{Y: PanStep})
	case ActionPanDown:
		return PanBy(s, Point{Y: -PanStep})
	default:
		return s
	}
}
