// Package pipeline runs the load → layout → render pipeline for kbgraph.
//
// The CLI, the HTTP server and the terminal explorer all go through a
// Runner so that caching, fallback and defaults behave the same everywhere.
//
// # Stages
//
//  1. Load: fetch the graph from an adapter.Source, validate it at the
//     boundary and fall back to a snapshot or demo data on failure
//  2. Layout: compute positions inside the requested canvas
//  3. Render: build a scene for an interaction state and write it in one
//     or more formats (SVG, PNG, PDF, JSON, DOT)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Layouts and artifacts are cached by content hash. The cache only avoids
// recomputation; a layout is always derived from the graph it is keyed by.
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/cache"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 900.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.StyleSimple

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	// FormatNeato is an SVG drawn by Graphviz from the DOT export with
	// positions pinned.
	FormatNeato = "neato"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatNeato: true,
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	if format == FormatNeato {
		return ".neato.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Types   []graph.NodeType `json:"types,omitempty"`
	Timeout time.Duration    `json:"-"`

	// Layout options
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Tuning  layout.Options `json:"tuning"`
	Refresh bool           `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	LabelBudget int      `json:"label_budget,omitempty"`
	HideLegend  bool     `json:"hide_legend,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Load      adapter.Result
	GraphHash string
	Layout    graph.Layout
	Scene     scene.Scene
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline timing information.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return kberrors.New(kberrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !styles.ValidStyles[style] {
		return kberrors.New(kberrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, dark)", style)
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills zero layout values. A zero Tuning becomes
// layout.DefaultOptions; anything else is normalized.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if isZeroTuning(o.Tuning) {
		o.Tuning = layout.DefaultOptions()
	}
	o.Tuning = o.Tuning.Normalize()
}

// ValidateForLayout sets defaults and checks the canvas size.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return kberrors.ValidateSize(o.Width, o.Height)
}

// SetRenderDefaults fills zero render values.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// ValidateForRender sets defaults and checks formats and style.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return kberrors.New(kberrors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return ValidateStyle(o.Style)
}

// ValidateAndSetDefaults prepares options for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		Seed:        o.Tuning.Seed,
		Iterations:  o.Tuning.Iterations,
		RestLength:  o.Tuning.RestLength,
		Repulsion:   o.Tuning.Repulsion,
		SpringK:     o.Tuning.SpringK,
		Gravity:     o.Tuning.Gravity,
		Padding:     o.Tuning.Padding,
		Temperature: o.Tuning.InitialTemperature,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
	}
	switch format {
	case FormatSVG:
		k.Interactive = o.Interactive
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

// SceneOptions returns the scene.Build options for a layout.
func (o *Options) SceneOptions(l graph.Layout, demo bool) scene.Options {
	return scene.Options{
		Width:       l.Width,
		Height:      l.Height,
		LabelBudget: o.LabelBudget,
		Demo:        demo,
		HideLegend:  o.HideLegend,
	}
}

func isZeroTuning(t layout.Options) bool {
	return t.Iterations == 0 && t.RestLength == 0 && t.Repulsion == 0 && t.SpringK == 0 &&
		t.Gravity == 0 && t.InitialTemperature == 0 && t.MinDistance == 0 &&
		t.MaxWeight == 0 && t.Seed == 0 && t.Padding == 0
}
