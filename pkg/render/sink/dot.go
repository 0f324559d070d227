package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// pointsPerInch converts scene pixels to Graphviz node sizes, which are in inches.
const pointsPerInch = 72.0

// RenderDOT converts a scene to an undirected Graphviz DOT graph. Every
// node is pinned at its computed position (pos="x,y!"), so Graphviz only
// routes and draws; it never re-lays out the graph. Dimmed elements are
// written with colors blended toward the background.
func RenderDOT(s scene.Scene, style styles.Style) string {
	if style == nil {
		style = styles.Simple{}
	}
	p := style.Palette()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", p.Background)
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, label=\"\", fontname=\"Helvetica\", fontsize=10, fontcolor=%q];\n", p.Text)
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=9];\n\n")

	// Graphviz puts the origin bottom-left.
	for _, n := range s.Nodes {
		stroke, pen := p.Stroke, 2.0
		if n.Focused {
			stroke, pen = p.Focus, 3.0
		}
		fmt.Fprintf(&buf, "  %q [pos=\"%.2f,%.2f!\", width=%.3f, fillcolor=%q, color=%q, penwidth=%.1f, xlabel=%q, tooltip=%q];\n",
			n.ID, n.X, s.Height-n.Y, 2*n.R/pointsPerInch,
			styles.Dim(n.Fill, p.Background, n.Opacity),
			styles.Dim(stroke, p.Background, n.Opacity),
			pen, n.Label, n.FullLabel)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		stroke := p.Edge
		if e.Highlighted {
			stroke = p.EdgeActive
		}
		fmt.Fprintf(&buf, "  %q -- %q [id=%q, penwidth=%.2f, color=%q", e.SourceID, e.TargetID, "edge-"+e.ID, e.Width, styles.Dim(stroke, p.Background, e.Opacity))
		if e.ShowLabel && e.Label != "" {
			fmt.Fprintf(&buf, ", label=%q", e.Label)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphvizSVG renders a DOT graph to SVG with the neato engine, which
// respects pinned node positions.
func RenderGraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes itself in
// points, with one sized in pixels so it scales like RenderSVG output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
