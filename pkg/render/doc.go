// Package render turns laid-out knowledge graphs into drawings.
//
// [scene] resolves a layout and an interaction state into a flat list of
// drawable nodes and edges with final colors, radii and opacity. [styles]
// maps node types and degrees to visual attributes and holds the palettes.
// [sink] writes a scene as SVG, PNG, PDF, JSON or DOT; only sinks know
// about output formats.
package render
