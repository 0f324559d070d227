// Package viewport keeps a graph layout in sync with the size of the
// surface it is drawn on.
//
// A [Manager] is fed size observations ([Manager.Observe]) and graph
// snapshots ([Manager.SetGraph]). Whenever the tracked size or the set of
// node and edge identities changes, the current layout becomes stale and a
// pass is scheduled after a short delay. A new change inside the delay
// cancels the pending pass and arms a new one, so a burst of resize events
// costs exactly one layout.
//
// Heights below [DefaultMinHeight] are raised to it. A width of zero means
// the surface has not been measured yet and never reaches the layout
// engine.
//
// While a pass is pending [Manager.Ready] is false, which renderers use to
// show a busy indicator over the previous positions.
package viewport
