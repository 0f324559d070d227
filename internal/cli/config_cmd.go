package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/config"
)

// configCommand creates the config command with its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configFile())
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration: defaults overlaid with the config file.

With --toml the configuration is printed in file format, ready to be saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.cfg)
			}
			c.printConfig()
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "toml", false, "print as TOML")
	return cmd
}

func (c *CLI) printConfig() {
	cfg := c.cfg
	path := c.configFile()
	if _, err := os.Stat(path); err != nil {
		path += StyleDim.Render(" (not found, using defaults)")
	}

	fmt.Println(StyleTitle.Render("Configuration"))
	printKeyValue("File", path)
	printNewline()

	printKeyValue("Source", cfg.Source.URL)
	if len(cfg.Source.Types) > 0 {
		printKeyValue("Types", strings.Join(cfg.Source.Types, ", "))
	}
	printKeyValue("Timeout", cfg.Source.Timeout.String())
	if cfg.Source.Mongo.URI != "" {
		printKeyValue("MongoDB", cfg.Source.Mongo.Database)
	}

	printKeyValue("Canvas", fmt.Sprintf("%g × %g", cfg.Render.Width, cfg.Render.Height))
	printKeyValue("Style", cfg.Render.Style)
	printKeyValue("Formats", strings.Join(cfg.Render.Formats, ", "))
	printKeyValue("Iterations", fmt.Sprint(cfg.Layout.Iterations))
	printKeyValue("Relayout", fmt.Sprintf("after %s, min height %g", cfg.Viewport.Delay, cfg.Viewport.MinHeight))

	cacheDesc := cfg.Cache.Backend
	switch cfg.Cache.Backend {
	case config.BackendFile:
		if dir, err := c.cacheDir(); err == nil {
			cacheDesc += " " + StyleDim.Render(dir)
		}
	case config.BackendRedis:
		// the URL may carry a password
		if addr := cfg.Cache.Redis.Addr; addr != "" {
			cacheDesc += " " + StyleDim.Render(addr)
		}
	}
	printKeyValue("Cache", cacheDesc)
	printKeyValue("Server", StyleHighlight.Render(cfg.Server.Addr))

	for _, k := range cfg.Unknown {
		printWarning("unknown key %s", k)
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				printError("%s already exists", path)
				printDetail("use --force to overwrite it")
				return errors.New("config file exists")
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
