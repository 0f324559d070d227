// Package config loads kbgraph settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/kbgraph/config.toml (or
// ~/.config/kbgraph/config.toml). Every field is optional; a missing file
// yields Default(). Command-line flags override file values.
//
//	[source]
//	url = "https://kb.example.com/api/graph"
//	types = ["document", "topic"]
//	timeout = "10s"
//
//	[layout]
//	iterations = 400
//	seed = 7
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/cache"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
	"github.com/matzehuels/kbgraph/pkg/viewport"
)

const appName = "kbgraph"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds kbgraph configuration.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Layout   layout.Options `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Render   RenderConfig   `toml:"render"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// SourceConfig selects where graph data comes from.
type SourceConfig struct {
	// URL is a source spec as accepted by adapter.ParseSource: "sample",
	// an http(s) URL, a mongodb URI or a file path.
	URL     string              `toml:"url"`
	Types   []string            `toml:"types"`
	Timeout time.Duration       `toml:"timeout"`
	Headers map[string]string   `toml:"headers"`
	Mongo   adapter.MongoConfig `toml:"mongo"`
}

// ViewportConfig tunes relayout on resize.
type ViewportConfig struct {
	Delay      time.Duration `toml:"delay"`
	MinHeight  float64       `toml:"min_height"`
	ReusePrior bool          `toml:"reuse_prior"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Style       string   `toml:"style"`
	Formats     []string `toml:"formats"`
	Scale       float64  `toml:"scale"`
	LabelBudget int      `toml:"label_budget"`
	Interactive bool     `toml:"interactive"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend string            `toml:"backend"` // "file", "redis", "none"
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures "kbgraph serve".
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	SessionTTL  time.Duration `toml:"session_ttl"`
	MaxSessions int           `toml:"max_sessions"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:     adapter.SourceSample,
			Timeout: adapter.DefaultTimeout,
		},
		Layout: layout.DefaultOptions(),
		Viewport: ViewportConfig{
			Delay:      viewport.DefaultDelay,
			MinHeight:  viewport.DefaultMinHeight,
			ReusePrior: true,
		},
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Style:   pipeline.DefaultStyle,
			Formats: []string{pipeline.FormatSVG},
			Scale:   pipeline.DefaultScale,
		},
		Cache: CacheConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			SessionTTL:  30 * time.Minute,
			MaxSessions: 256,
		},
	}
}

// Dir returns the kbgraph config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default file cache directory (~/.cache/kbgraph).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config at path on top of Default. An empty path means
// Path(). A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	for _, k := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return kberrors.New(kberrors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Render.Style != "" && !styles.ValidStyles[c.Render.Style] {
		return kberrors.New(kberrors.ErrCodeInvalidStyle, "render.style %q is not a known style", c.Render.Style)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := adapter.ParseTypes(strings.Join(c.Source.Types, ",")); err != nil {
		return err
	}
	if c.Viewport.MinHeight < 0 || c.Viewport.Delay < 0 {
		return kberrors.New(kberrors.ErrCodeInvalidInput, "viewport values must not be negative")
	}
	return nil
}

// PipelineOptions returns the pipeline options the config describes.
func (c *Config) PipelineOptions() pipeline.Options {
	types, _ := adapter.ParseTypes(strings.Join(c.Source.Types, ","))
	return pipeline.Options{
		Types:       types,
		Timeout:     c.Source.Timeout,
		Width:       c.Render.Width,
		Height:      c.Render.Height,
		Tuning:      c.Layout,
		Formats:     slices.Clone(c.Render.Formats),
		Style:       c.Render.Style,
		Interactive: c.Render.Interactive,
		Scale:       c.Render.Scale,
		LabelBudget: c.Render.LabelBudget,
	}
}

// ViewportOptions returns the viewport.Manager options the config describes.
func (c *Config) ViewportOptions() []viewport.Option {
	var opts []viewport.Option
	if c.Viewport.Delay > 0 {
		opts = append(opts, viewport.WithDelay(c.Viewport.Delay))
	}
	if c.Viewport.MinHeight > 0 {
		opts = append(opts, viewport.WithMinHeight(c.Viewport.MinHeight))
	}
	return append(opts, viewport.WithPriorReuse(c.Viewport.ReusePrior))
}
