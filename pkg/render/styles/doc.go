// Package styles maps semantic graph attributes to visual attributes and
// defines the visual styles used by the SVG sink.
//
// # Overview
//
// The mapping functions are pure and stateless:
//
//   - [NodeRadius]: degree → circle radius inside [MinRadius, MaxRadius]
//   - [NodeColor]: node type → fill color, with [DefaultNodeColor] for unknown types
//   - [EdgeStrokeWidth]: edge weight → stroke width inside [MinStroke, MaxStroke]
//   - [EdgeMidpoint]: label anchor between two node positions
//   - [TruncateLabel]: rune-aware shortening with a continuation marker
//   - [Opacity]: full or dimmed depending on the highlight set
//
// # The Style Interface
//
// All styles implement [Style], which writes SVG fragments for each visual
// element of a scene:
//
//   - RenderDefs: SVG <defs> section (filters, markers)
//   - RenderEdge: One edge line, with its label when highlighted
//   - RenderNode: One node circle and its document-count badge
//   - RenderLabel: One node label
//
// [Simple] draws on a light background, [Dark] on a dark one. Both share the
// node palette so the legend reads the same in either.
package styles
