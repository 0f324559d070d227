package cli

import (
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/config"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// optionFlags are the flags shared by commands that load and lay out a
// graph. Only flags the user set override the config file.
type optionFlags struct {
	source     string
	types      string
	timeout    time.Duration
	width      float64
	height     float64
	seed       uint64
	iterations int
	noCache    bool
	refresh    bool

	formats     string
	style       string
	scale       float64
	interactive bool
	labelBudget int
}

func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", "", `graph source: "sample", a URL, a mongodb URI or a JSON file (default from config)`)
	fl.StringVar(&f.types, "types", "", "comma-separated node types to show (default: all)")
	fl.DurationVar(&f.timeout, "timeout", 0, "source fetch timeout")
	fl.Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	fl.Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	fl.Uint64Var(&f.seed, "seed", 0, "layout seed")
	fl.IntVar(&f.iterations, "iterations", 0, "simulation iterations")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute the layout even if cached")

	types := make([]string, len(graph.NodeTypes))
	for i, t := range graph.NodeTypes {
		types[i] = string(t)
	}
	_ = cmd.RegisterFlagCompletionFunc("types", completeValues(types...))
}

func (f *optionFlags) registerRender(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot, neato (comma-separated)")
	fl.StringVar(&f.style, "style", "", "visual style: simple, dark")
	fl.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG pixel density")
	fl.BoolVar(&f.interactive, "interactive", false, "embed hover and pan/zoom script in SVG output")
	fl.IntVar(&f.labelBudget, "label-budget", 0, "maximum label length in characters")

	formats := slices.Sorted(maps.Keys(pipeline.ValidFormats))
	_ = cmd.RegisterFlagCompletionFunc("format", completeValues(formats...))
	_ = cmd.RegisterFlagCompletionFunc("style", completeValues(slices.Sorted(maps.Keys(styles.ValidStyles))...))
}

// options merges the config file with the flags the user set.
func (f *optionFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := cfg.PipelineOptions()
	changed := cmd.Flags().Changed

	if changed("types") {
		types, err := adapter.ParseTypes(f.types)
		if err != nil {
			return opts, err
		}
		opts.Types = types
	}
	if changed("timeout") {
		opts.Timeout = f.timeout
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("seed") {
		opts.Tuning.Seed = f.seed
	}
	if changed("iterations") {
		opts.Tuning.Iterations = f.iterations
	}
	opts.Refresh = f.refresh
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("style") {
		opts.Style = f.style
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	if changed("interactive") {
		opts.Interactive = f.interactive
	}
	if changed("label-budget") {
		opts.LabelBudget = f.labelBudget
	}
	return opts, nil
}
