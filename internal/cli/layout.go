package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags     optionFlags
		output    string
		showTable bool
		top       int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute node positions for a knowledge graph",
		Long: `Compute node positions for a knowledge graph.

The graph is fetched from the configured source (or --source), validated and
laid out with a force-directed simulation inside a width × height canvas.
The result is a layout.json file that 'kbgraph render --layout' can draw
without recomputing.

If the source cannot be reached the built-in sample graph is used and a
warning is printed. Layouts are cached by graph content, canvas size and
simulation settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), flags, opts, output, showTable, top)
		},
	}

	flags.registerLayout(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", "output file, - for stdout")
	cmd.Flags().BoolVar(&showTable, "table", false, "print a table of node positions")
	cmd.Flags().IntVar(&top, "top", 20, "rows shown by --table, 0 for all")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, flags optionFlags, opts pipeline.Options, output string, showTable bool, top int) error {
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

	prog := newProgress(c.Logger)
	res := runner.Load(ctx, src, opts)
	prog.done("graph loaded", "source", res.Source, "nodes", len(res.Graph.Nodes))

	toStdout := output == "-"
	if !toStdout {
		printLoadStatus(res)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, res.Graph, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if toStdout {
		data, err := graph.MarshalLayout(l)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(graph.NewIndex(l.Nodes, l.Edges).Stats(), cacheHit)
	if showTable {
		printNewline()
		fmt.Println(positionsTable(l, top))
	}
	printNewline()
	printNextStep("Render", appName+" render --layout "+output)

	return nil
}
