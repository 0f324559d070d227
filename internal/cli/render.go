package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      optionFlags
		output     string
		fromLayout string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a knowledge graph to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a knowledge graph to SVG, PNG, PDF, JSON or DOT.

Without --layout the graph is loaded and laid out first, as by 'kbgraph layout'.
With --layout a saved layout.json is drawn as is.

Several formats may be requested at once (-f svg,png,dot); they are rendered
concurrently and written next to each other using --output as the base name.
The "neato" format runs the DOT export through Graphviz with node positions
pinned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg)
			if err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			if fromLayout != "" {
				return c.renderLayoutFile(cmd.Context(), fromLayout, opts, output, flags.noCache)
			}
			return c.runRender(cmd.Context(), flags, opts, output)
		},
	}

	flags.registerLayout(cmd)
	flags.registerRender(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: graph)")
	cmd.Flags().StringVar(&fromLayout, "layout", "", "render a layout.json instead of loading the graph")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, flags optionFlags, opts pipeline.Options, output string) error {
	src, closeSrc, err := c.newSource(ctx, flags.source)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printLoadStatus(res.Load)
	paths, err := writeArtifacts(res.Artifacts, opts.Formats, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Scene.Stats, res.CacheInfo.LayoutHit)
	return nil
}

// renderLayoutFile draws a saved layout without loading or laying out.
func (c *CLI) renderLayoutFile(ctx context.Context, path string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", path, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc := runner.Scene(l, interaction.NewState(), opts, false)
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(path, ".json")
		output = strings.TrimSuffix(output, ".layout")
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", path)
	for _, p := range paths {
		printFile(p)
	}
	printStats(sc.Stats, cacheHit)
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order. A single format is written to output exactly when output
// is given; otherwise files are named base + extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := outputPath(output, f, len(formats))
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func outputPath(output, format string, count int) string {
	if count == 1 && output != "" && outputFormat(output) != "" {
		return output
	}
	return basePath(output) + pipeline.Extension(format)
}

// basePath strips a known format extension from output. An empty output
// becomes "graph".
func basePath(output string) string {
	if output == "" {
		return "graph"
	}
	if f := outputFormat(output); f != "" {
		return strings.TrimSuffix(output, pipeline.Extension(f))
	}
	return output
}

// outputFormat returns the format whose extension output ends with, or "".
func outputFormat(output string) string {
	// neato first: ".neato.svg" also ends with ".svg"
	if strings.HasSuffix(output, pipeline.Extension(pipeline.FormatNeato)) {
		return pipeline.FormatNeato
	}
	for f := range pipeline.ValidFormats {
		if strings.HasSuffix(output, pipeline.Extension(f)) {
			return f
		}
	}
	return ""
}
