package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/server"
	"github.com/matzehuels/kbgraph/pkg/session"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags optionFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graphs, layouts and interactive sessions over HTTP",
		Long: `Serve graphs, layouts and interactive sessions over HTTP.

One-shot endpoints render the configured source:

  GET  /healthz
  GET  /api/graph                 validated graph (?types=)
  GET  /api/stats                 degree statistics
  GET  /api/render/{format}       svg, png, pdf, json, dot, neato (?width=&height=&style=)

Sessions keep a surface with its own size and interaction state. A resize
schedules a debounced relayout; events drive hover, selection, pan and zoom:

  POST   /api/sessions                    create
  GET    /api/sessions/{id}               info
  POST   /api/sessions/{id}/events        pointer, key and click events
  POST   /api/sessions/{id}/resize        new surface size
  POST   /api/sessions/{id}/reload        refetch the source
  GET    /api/sessions/{id}/scene/{format}
  GET    /api/sessions/{id}/layout
  DELETE /api/sessions/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), flags, opts, addr)
		},
	}

	flags.registerLayout(cmd)
	flags.registerRender(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags optionFlags, opts pipeline.Options, addr string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

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

	srv := server.New(runner, src,
		server.WithLogger(c.Logger),
		server.WithStore(session.NewStore(c.cfg.Server.SessionTTL, c.cfg.Server.MaxSessions)),
		server.WithDefaults(opts),
		server.WithViewportOptions(c.cfg.ViewportOptions()...),
	)

	printInfo("Serving %s on %s", src.Name(), StyleHighlight.Render("http://"+addr))
	printDetail("sessions expire after %s idle", c.cfg.Server.SessionTTL)
	printNewline()

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
