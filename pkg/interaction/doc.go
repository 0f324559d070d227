// Package interaction implements pan, zoom, hover and selection for a graph
// surface.
//
// # State
//
// [State] is a plain value: pan offset, zoom factor, hovered and selected
// node IDs and the drag flag. Pure reducers ([ZoomIn], [PointerDown],
// [Click], ...) take a state and return the next one, so every transition
// is testable without a surface.
//
// The pointer has two modes. A press on the background enters [Panning];
// moves then accumulate into the pan offset until release or until the
// pointer leaves the surface. A press on a node never pans.
//
// Zoom moves in steps of [ZoomStep] and is clamped to [MinZoom, MaxZoom].
//
// # Highlighting
//
// The focus is the hovered node, or the selected node when nothing is
// hovered. [Highlight] returns the focus, its incident edges and their
// other endpoints; renderers dim everything else.
//
// # Controller
//
// [Controller] combines the state with the current graph and the external
// collaborators: a [DetailPanel] opened on selection and an optional
// OnNodeClick hook called on every selection (never on deselection).
// Navigation from the panel re-enters the same click path.
package interaction
