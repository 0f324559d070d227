package styles

import (
	"bytes"
	"fmt"
)

var (
	lightPalette = Palette{
		Background: "#ffffff",
		Edge:       "#94a3b8",
		EdgeActive: "#334155",
		Text:       "#1f2937",
		MutedText:  "#6b7280",
		Panel:      "#f8fafc",
		PanelText:  "#334155",
		Stroke:     "#ffffff",
		Focus:      "#111827",
	}

	darkPalette = Palette{
		Background: "#1e1e2e",
		Edge:       "#6b80bf",
		EdgeActive: "#f8f8f2",
		Text:       "#f8f8f2",
		MutedText:  "#a0a0b0",
		Panel:      "#2a2a3e",
		PanelText:  "#f8f8f2",
		Stroke:     "#1e1e2e",
		Focus:      "#f8f8f2",
	}
)

// Simple draws on a light background with solid fills.
type Simple struct{}

func (Simple) Name() string                          { return StyleSimple }
func (Simple) Palette() Palette                      { return lightPalette }
func (Simple) RenderDefs(buf *bytes.Buffer)          {}
func (Simple) RenderEdge(buf *bytes.Buffer, e Edge)  { renderEdge(buf, lightPalette, e) }
func (Simple) RenderNode(buf *bytes.Buffer, n Node)  { renderNode(buf, lightPalette, n) }
func (Simple) RenderLabel(buf *bytes.Buffer, n Node) { renderLabel(buf, lightPalette, n) }

// Dark draws on a dark background and adds a soft glow to the focused node.
type Dark struct{}

func (Dark) Name() string     { return StyleDark }
func (Dark) Palette() Palette { return darkPalette }

func (Dark) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">
      <feGaussianBlur in="SourceGraphic" stdDeviation="4" result="blur"/>
      <feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge>
    </filter>
  </defs>
`)
}

func (Dark) RenderEdge(buf *bytes.Buffer, e Edge)  { renderEdge(buf, darkPalette, e) }
func (Dark) RenderNode(buf *bytes.Buffer, n Node)  { renderNode(buf, darkPalette, n) }
func (Dark) RenderLabel(buf *bytes.Buffer, n Node) { renderLabel(buf, darkPalette, n) }

func renderEdge(buf *bytes.Buffer, p Palette, e Edge) {
	stroke := p.Edge
	class := "edge"
	if e.Highlighted {
		stroke = p.EdgeActive
		class = "edge highlight"
	}
	fmt.Fprintf(buf, `    <line id="edge-%s" class="%s" data-source="%s" data-target="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round" opacity="%.2f"/>`+"\n",
		EscapeXML(e.ID), class, EscapeXML(e.SourceID), EscapeXML(e.TargetID),
		e.X1, e.Y1, e.X2, e.Y2, stroke, e.Width, e.Opacity)

	if e.ShowLabel && e.Label != "" {
		fmt.Fprintf(buf, `    <text class="edge-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%.0f" fill="%s" stroke="%s" stroke-width="3" paint-order="stroke">%s</text>`+"\n",
			e.LabelX, e.LabelY, edgeLabelFontSize, p.Text, p.Background, EscapeXML(e.Label))
	}
}

func renderNode(buf *bytes.Buffer, p Palette, n Node) {
	class := "node"
	stroke, strokeWidth := p.Stroke, 2.0
	if n.Highlighted {
		class += " highlight"
	}
	if n.Selected {
		class += " selected"
	}
	if n.Focused {
		stroke, strokeWidth = p.Focus, 3.0
	}

	fmt.Fprintf(buf, `    <g id="node-%s" class="%s" opacity="%.2f">`+"\n", EscapeXML(n.ID), class, n.Opacity)
	fmt.Fprintf(buf, `      <title>%s</title>`+"\n", EscapeXML(n.FullLabel))
	filter := ""
	if n.Focused && p == darkPalette {
		filter = ` filter="url(#glow)"`
	}
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		n.X, n.Y, n.R, n.Fill, stroke, strokeWidth, filter)

	if n.Badge > 0 {
		bx, by := n.X+n.R*0.7, n.Y-n.R*0.7
		fmt.Fprintf(buf, `      <circle class="badge" cx="%.2f" cy="%.2f" r="7" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			bx, by, p.Panel, n.Fill)
		fmt.Fprintf(buf, `      <text class="badge-text" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.0f" fill="%s">%d</text>`+"\n",
			bx, by, badgeFontSize, p.PanelText, n.Badge)
	}
	buf.WriteString("    </g>\n")
}

func renderLabel(buf *bytes.Buffer, p Palette, n Node) {
	weight := "normal"
	if n.Focused {
		weight = "bold"
	}
	fmt.Fprintf(buf, `    <text class="node-label" data-node="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.0f" font-weight="%s" fill="%s" opacity="%.2f">%s</text>`+"\n",
		EscapeXML(n.ID), n.X, n.Y+n.R+labelFontSize+2, labelFontSize, weight, p.Text, n.Opacity, EscapeXML(n.Label))
}
