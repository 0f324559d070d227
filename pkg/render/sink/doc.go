// Package sink provides output format renderers for graph scenes.
//
// # Overview
//
// A "sink" transforms a resolved [scene.Scene] into a final output format.
// Scenes are already fully mapped (radius, color, opacity, draw order), so
// every sink draws the same picture:
//
//   - SVG: the live surface, optionally with a hover-highlight script
//   - PNG: raster output drawn with fogleman/gg
//   - JSON: the scene itself, for clients that draw it themselves
//   - DOT: Graphviz export with pinned node positions
//   - PDF: print output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] spans the container width and the scene height. All graph
// geometry sits in one group carrying the pan/zoom transform, so panning
// only rewrites a single attribute:
//
//	<g class="viewport" transform="translate(x y) scale(z)">
//
// The legend, zoom controls and the busy, empty and demo overlays are drawn
// outside that group and never move.
//
//	svg := sink.RenderSVG(s, sink.WithStyle(styles.Dark{}), sink.WithInteraction())
//
// # Graphviz
//
// [RenderDOT] writes an undirected graph whose nodes carry pos="x,y!".
// [RenderGraphvizSVG] renders it with the neato engine, which honors pinned
// positions, so the Graphviz picture matches the computed layout.
package sink
