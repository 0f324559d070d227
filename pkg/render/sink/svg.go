package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

const graphInteractionCSS = `
    .node, .edge, .node-label { transition: opacity 0.15s ease; }
    .node { cursor: pointer; }
    .node.selected circle { stroke-width: 3; }
    .dim { opacity: 0.15 !important; }
    .control { cursor: pointer; }
    .control:hover rect { opacity: 0.85; }`

// The script only mirrors hover highlighting; pan, zoom and selection live
// in the controller that produced the scene.
const graphInteractionJS = `
    const edges = Array.from(document.querySelectorAll('.edge'));
    function focusNode(id) {
      const keep = new Set([id]);
      edges.forEach(e => {
        const on = e.dataset.source === id || e.dataset.target === id;
        if (on) { keep.add(e.dataset.source); keep.add(e.dataset.target); }
        e.classList.toggle('dim', !on);
      });
      document.querySelectorAll('.node').forEach(n => n.classList.toggle('dim', !keep.has(n.id.replace('node-', ''))));
      document.querySelectorAll('.node-label').forEach(l => l.classList.toggle('dim', !keep.has(l.dataset.node)));
    }
    function clearFocus() {
      document.querySelectorAll('.dim').forEach(el => el.classList.remove('dim'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => focusNode(el.id.replace('node-', '')));
      el.addEventListener('mouseleave', clearFocus);
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	interactive bool
	fixedWidth  bool
}

// WithStyle sets the visual style. The default is styles.Simple.
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithInteraction embeds a small script that highlights a node's
// neighborhood on hover.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithFixedWidth writes the scene width instead of 100% as the width
// attribute, for viewers that cannot size to a container.
func WithFixedWidth() SVGOption { return func(r *svgRenderer) { r.fixedWidth = true } }

// RenderSVG renders s as a standalone SVG document. The surface spans the
// container width and the scene height; all graph geometry sits inside one
// group carrying the pan/zoom transform.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	p := r.style.Palette()

	width := "100%"
	if r.fixedWidth {
		width = fmt.Sprintf("%.0f", s.Width)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%s" height="%.0f" preserveAspectRatio="xMidYMid meet">`+"\n",
		s.Width, s.Height, width, s.Height)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", s.Width, s.Height, p.Background)

	r.style.RenderDefs(&buf)
	renderViewport(&buf, &r, s)
	renderLegend(&buf, p, s)
	renderControls(&buf, p, s)
	renderOverlays(&buf, p, s)
	if r.interactive {
		renderGraphInteraction(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderViewport(buf *bytes.Buffer, r *svgRenderer, s scene.Scene) {
	fmt.Fprintf(buf, `  <g class="viewport" transform="%s">`+"\n", s.Transform.SVG())
	for _, e := range s.Edges {
		r.style.RenderEdge(buf, e)
	}
	for _, n := range s.Nodes {
		r.style.RenderNode(buf, n)
	}
	for _, n := range s.Nodes {
		r.style.RenderLabel(buf, n)
	}
	buf.WriteString("  </g>\n")
}

const (
	legendPad      = 10.0
	legendRow      = 18.0
	legendSwatch   = 6.0
	legendWidth    = 130.0
	legendFontSize = 11.0
)

func renderLegend(buf *bytes.Buffer, p styles.Palette, s scene.Scene) {
	if len(s.Legend) == 0 {
		return
	}
	h := legendPad*2 + float64(len(s.Legend))*legendRow
	x, y := legendPad, s.Height-legendPad-h

	buf.WriteString(`  <g class="legend">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" opacity="0.92"/>`+"\n",
		x, y, legendWidth, h, p.Panel)
	for i, l := range s.Legend {
		cy := y + legendPad + legendRow*float64(i) + legendRow/2
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", x+legendPad+legendSwatch, cy, legendSwatch, l.Color)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" dominant-baseline="middle" font-family="sans-serif" font-size="%.0f" fill="%s">%s (%d)</text>`+"\n",
			x+legendPad*2+legendSwatch*2, cy, legendFontSize, p.PanelText, styles.EscapeXML(l.Label), l.Count)
	}
	buf.WriteString("  </g>\n")
}

func renderControls(buf *bytes.Buffer, p styles.Palette, s scene.Scene) {
	if len(s.Controls) == 0 {
		return
	}
	buf.WriteString(`  <g class="controls">` + "\n")
	for _, c := range s.Controls {
		fmt.Fprintf(buf, `    <g class="control" data-action="%s">`+"\n", c.Action)
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s"/>`+"\n",
			c.X, c.Y, c.Size, c.Size, p.Panel, p.MutedText)
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="16" fill="%s">%s</text>`+"\n",
			c.X+c.Size/2, c.Y+c.Size/2, p.PanelText, styles.EscapeXML(c.Symbol))
		buf.WriteString("    </g>\n")
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="%s">%.0f%%</text>`+"\n",
		s.Controls[0].X+s.Controls[0].Size/2, s.Controls[len(s.Controls)-1].Y+s.Controls[0].Size+14, p.MutedText, s.Transform.Scale*100)
	buf.WriteString("  </g>\n")
}

func renderOverlays(buf *bytes.Buffer, p styles.Palette, s scene.Scene) {
	if s.Empty {
		fmt.Fprintf(buf, `  <text class="empty-state" x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="14" fill="%s">No knowledge graph data yet</text>`+"\n",
			s.Width/2, s.Height/2, p.MutedText)
	}
	if s.Busy {
		fmt.Fprintf(buf, `  <g class="busy"><rect x="0" y="0" width="%.1f" height="3" fill="%s" opacity="0.6"/><text x="%.1f" y="20" font-family="sans-serif" font-size="11" fill="%s">Laying out…</text></g>`+"\n",
			s.Width, p.EdgeActive, legendPad, p.MutedText)
	}
	if s.Demo {
		fmt.Fprintf(buf, `  <g class="demo-badge"><rect x="%.1f" y="%.1f" width="84" height="20" rx="10" fill="%s"/><text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="11" fill="%s">Demo data</text></g>`+"\n",
			legendPad, legendPad+14, styles.ColorPerson, legendPad+42, legendPad+24, p.Background)
	}
}

func renderGraphInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", graphInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", graphInteractionJS)
}
