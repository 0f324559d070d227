// Package scene turns positioned graph data and interaction state into a
// drawable [Scene].
//
// [Build] applies the render mappings from [styles] (degree to radius, type
// to color, weight to stroke width, label truncation, edge label
// midpoints) and the highlight set derived from the interaction state. The
// result is independent of the output format: sinks only draw what the
// scene lists, in the order it lists it.
//
// A scene also carries the pan/zoom [Transform] applied to the drawable
// group, the type legend, zoom control descriptors and the flags renderers
// turn into overlays: Empty (nothing to draw), Busy (a layout pass is
// pending) and Demo (the graph is sample data).
//
// [styles]: github.com/matzehuels/kbgraph/pkg/render/styles
package scene
