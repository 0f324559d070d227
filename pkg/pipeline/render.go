package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/sink"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// renderFormat writes sc in a single format.
func renderFormat(ctx context.Context, sc scene.Scene, format string, opts Options) ([]byte, error) {
	style := styles.ByName(opts.Style)

	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc, buildSVGOptions(style, opts)...), nil
	case FormatPNG:
		return sink.RenderPNG(sc, sink.WithScale(opts.Scale), sink.WithPNGStyle(style))
	case FormatPDF:
		return sink.RenderPDF(ctx, sc, sink.WithStyle(style))
	case FormatJSON:
		return sink.RenderJSON(sc)
	case FormatDOT:
		return []byte(sink.RenderDOT(sc, style)), nil
	case FormatNeato:
		return sink.RenderGraphvizSVG(ctx, sink.RenderDOT(sc, style))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func buildSVGOptions(style styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}
