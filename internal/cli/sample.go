package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/graph"
)

// sampleCommand writes the built-in sample graph, a starting point for a
// custom JSON source.
func (c *CLI) sampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the built-in sample graph as JSON",
		Long: `Write the built-in sample graph as JSON.

This is the graph shown whenever the configured source cannot be reached.
The output is a valid file source: kbgraph render --source sample.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := graph.SampleGraph()
			if output == "" || output == "-" {
				return graph.WriteGraph(g, cmd.OutOrStdout())
			}
			if err := graph.WriteGraphFile(g, output); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Wrote sample graph (%d nodes, %d edges)", len(g.Nodes), len(g.Edges))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagFilename("output", "json")
	return cmd
}
