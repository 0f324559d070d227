// Package cli implements the kbgraph command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/buildinfo"
	"github.com/matzehuels/kbgraph/pkg/cache"
	"github.com/matzehuels/kbgraph/pkg/config"
	"github.com/matzehuels/kbgraph/pkg/observability"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "kbgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kbgraph lays out and explores knowledge graphs",
		Long: `kbgraph turns a knowledge base of documents, topics, people, technologies
and insights into a force-directed graph you can render to SVG, PNG, PDF or DOT,
explore in the terminal, or serve to a browser over HTTP.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and attaches the logger to the command
// context. In debug mode pipeline and cache events are logged.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, key := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", key)
	}
	c.cfg = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.Redis)
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSource opens the source named by spec, or the configured source when
// spec is empty. The returned close function releases connections.
func (c *CLI) newSource(ctx context.Context, spec string) (adapter.Source, func(), error) {
	if spec == "" {
		spec = c.cfg.Source.URL
	}

	var (
		src adapter.Source
		err error
	)
	if m := c.cfg.Source.Mongo; m.URI != "" && (spec == m.URI || spec == "mongo") {
		src, err = adapter.NewMongoSource(ctx, m)
	} else {
		src, err = adapter.ParseSource(ctx, spec, c.cfg.Source.Headers)
	}
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	if ms, ok := src.(*adapter.MongoSource); ok {
		closeFn = func() {
			if err := ms.Close(context.Background()); err != nil {
				c.Logger.Debug("close mongo source", "err", err)
			}
		}
	}
	return src, closeFn, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
