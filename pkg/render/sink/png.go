package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style styles.Style
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGStyle sets the palette the raster is drawn with.
func WithPNGStyle(s styles.Style) PNGOption {
	return func(r *pngRenderer) { r.style = s }
}

// RenderPNG rasterizes s. Dimmed elements are blended into the background
// color rather than drawn translucent, so overlapping dimmed edges do not
// darken each other.
func RenderPNG(s scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: styles.Simple{}, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, fmt.Errorf("invalid png scale %v", r.scale)
	}
	w := int(math.Ceil(s.Width * r.scale))
	h := int(math.Ceil(s.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid png size %dx%d", w, h)
	}

	p := r.style.Palette()
	dc := gg.NewContext(w, h)
	dc.SetHexColor(p.Background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	dc.Push()
	dc.Translate(s.Transform.X, s.Transform.Y)
	dc.Scale(s.Transform.Scale, s.Transform.Scale)
	drawEdges(dc, p, s)
	drawNodes(dc, p, s)
	dc.Pop()

	drawLegend(dc, p, s)
	drawControls(dc, p, s)
	drawOverlays(dc, p, s)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func setColor(dc *gg.Context, hex, bg string, opacity float64) {
	dc.SetRGB(styles.RGBA(styles.Dim(hex, bg, opacity)))
}

func drawEdges(dc *gg.Context, p styles.Palette, s scene.Scene) {
	for _, e := range s.Edges {
		stroke := p.Edge
		if e.Highlighted {
			stroke = p.EdgeActive
		}
		setColor(dc, stroke, p.Background, e.Opacity)
		dc.SetLineWidth(e.Width)
		dc.SetLineCapRound()
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}
	for _, e := range s.Edges {
		if !e.ShowLabel || e.Label == "" {
			continue
		}
		setColor(dc, p.Text, p.Background, e.Opacity)
		dc.DrawStringAnchored(e.Label, e.LabelX, e.LabelY, 0.5, 0.5)
	}
}

func drawNodes(dc *gg.Context, p styles.Palette, s scene.Scene) {
	for _, n := range s.Nodes {
		dc.DrawCircle(n.X, n.Y, n.R)
		setColor(dc, n.Fill, p.Background, n.Opacity)
		dc.FillPreserve()
		stroke, lw := p.Stroke, 2.0
		if n.Focused {
			stroke, lw = p.Focus, 3.0
		}
		setColor(dc, stroke, p.Background, n.Opacity)
		dc.SetLineWidth(lw)
		dc.Stroke()

		if n.Badge > 0 {
			bx, by := n.X+n.R*0.7, n.Y-n.R*0.7
			dc.DrawCircle(bx, by, 7)
			setColor(dc, p.Panel, p.Background, n.Opacity)
			dc.Fill()
			setColor(dc, p.PanelText, p.Background, n.Opacity)
			dc.DrawStringAnchored(fmt.Sprint(n.Badge), bx, by, 0.5, 0.4)
		}
	}
	for _, n := range s.Nodes {
		setColor(dc, p.Text, p.Background, n.Opacity)
		dc.DrawStringAnchored(n.Label, n.X, n.Y+n.R+12, 0.5, 0.5)
	}
}

func drawLegend(dc *gg.Context, p styles.Palette, s scene.Scene) {
	if len(s.Legend) == 0 {
		return
	}
	h := legendPad*2 + float64(len(s.Legend))*legendRow
	x, y := legendPad, s.Height-legendPad-h
	dc.DrawRoundedRectangle(x, y, legendWidth, h, 6)
	dc.SetHexColor(p.Panel)
	dc.Fill()
	for i, l := range s.Legend {
		cy := y + legendPad + legendRow*float64(i) + legendRow/2
		dc.DrawCircle(x+legendPad+legendSwatch, cy, legendSwatch)
		dc.SetHexColor(l.Color)
		dc.Fill()
		dc.SetHexColor(p.PanelText)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%d)", l.Label, l.Count), x+legendPad*2+legendSwatch*2, cy, 0, 0.35)
	}
}

func drawControls(dc *gg.Context, p styles.Palette, s scene.Scene) {
	for _, c := range s.Controls {
		dc.DrawRoundedRectangle(c.X, c.Y, c.Size, c.Size, 4)
		dc.SetHexColor(p.Panel)
		dc.FillPreserve()
		dc.SetHexColor(p.MutedText)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.SetHexColor(p.PanelText)
		dc.DrawStringAnchored(asciiSymbol(c.Action, c.Symbol), c.X+c.Size/2, c.Y+c.Size/2, 0.5, 0.35)
	}
}

// asciiSymbol replaces control glyphs the built-in bitmap font cannot draw.
func asciiSymbol(action, symbol string) string {
	switch action {
	case "zoom-out":
		return "-"
	case "reset":
		return "0"
	default:
		return symbol
	}
}

func drawOverlays(dc *gg.Context, p styles.Palette, s scene.Scene) {
	if s.Empty {
		dc.SetHexColor(p.MutedText)
		dc.DrawStringAnchored("No knowledge graph data yet", s.Width/2, s.Height/2, 0.5, 0.5)
	}
	if s.Busy {
		dc.SetHexColor(p.EdgeActive)
		dc.DrawRectangle(0, 0, s.Width, 3)
		dc.Fill()
	}
	if s.Demo {
		dc.DrawRoundedRectangle(legendPad, legendPad+14, 84, 20, 10)
		dc.SetHexColor(styles.ColorPerson)
		dc.Fill()
		dc.SetHexColor(p.Background)
		dc.DrawStringAnchored("Demo data", legendPad+42, legendPad+24, 0.5, 0.35)
	}
}
