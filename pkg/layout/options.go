package layout

import "github.com/matzehuels/kbgraph/pkg/graph"

// Default tuning values.
const (
	DefaultIterations = 300
	DefaultSeed       = 42
	DefaultRepulsion  = 1.0
	DefaultSpringK    = 1.0
	DefaultGravity    = 0.1
	DefaultMinDist    = 1.0
	DefaultMaxWeight  = 10.0
	DefaultPadding    = 8.0

	// seedRadiusRatio scales the seeding circle to min(width, height).
	seedRadiusRatio = 0.35
)

// Options tunes the force simulation. Zero values of RestLength and
// InitialTemperature are derived from the canvas size.
type Options struct {
	Iterations         int     `json:"iterations" toml:"iterations"`
	RestLength         float64 `json:"rest_length" toml:"rest_length"`
	Repulsion          float64 `json:"repulsion" toml:"repulsion"`
	SpringK            float64 `json:"spring_k" toml:"spring_k"`
	Gravity            float64 `json:"gravity" toml:"gravity"`
	InitialTemperature float64 `json:"initial_temperature" toml:"initial_temperature"`
	MinDistance        float64 `json:"min_distance" toml:"min_distance"`
	MaxWeight          float64 `json:"max_weight" toml:"max_weight"`
	Seed               uint64  `json:"seed" toml:"seed"`
	Padding            float64 `json:"padding" toml:"padding"`

	// Prior seeds nodes from an earlier layout. It is not part of the
	// tunable set and never serialized.
	Prior map[string]graph.Position `json:"-" toml:"-"`
}

// DefaultOptions returns the options used when Compute is called without any.
func DefaultOptions() Options {
	return Options{
		Iterations:  DefaultIterations,
		Repulsion:   DefaultRepulsion,
		SpringK:     DefaultSpringK,
		Gravity:     DefaultGravity,
		MinDistance: DefaultMinDist,
		MaxWeight:   DefaultMaxWeight,
		Seed:        DefaultSeed,
		Padding:     DefaultPadding,
	}
}

// Normalize replaces out-of-range values with defaults.
func (o Options) Normalize() Options {
	d := DefaultOptions()
	if o.Iterations < 0 {
		o.Iterations = d.Iterations
	}
	if o.Repulsion <= 0 {
		o.Repulsion = d.Repulsion
	}
	if o.SpringK < 0 {
		o.SpringK = d.SpringK
	}
	if o.Gravity < 0 {
		o.Gravity = d.Gravity
	}
	if o.MinDistance <= 0 {
		o.MinDistance = d.MinDistance
	}
	if o.MaxWeight <= 0 {
		o.MaxWeight = d.MaxWeight
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.RestLength < 0 {
		o.RestLength = 0
	}
	if o.InitialTemperature < 0 {
		o.InitialTemperature = 0
	}
	return o
}

// Option configures a single Compute call.
type Option func(*Options)

// WithOptions replaces all tunables with o. Later options still apply on top.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		prior := dst.Prior
		*dst = o
		if dst.Prior == nil {
			dst.Prior = prior
		}
	}
}

// WithIterations sets the number of relaxation steps.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithSeed sets the seed of the jitter source used for initial placement.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithPadding sets the space kept between the largest node circle and the
// canvas edge.
func WithPadding(p float64) Option { return func(o *Options) { o.Padding = p } }

// WithRestLength sets the spring rest length in canvas units.
func WithRestLength(l float64) Option { return func(o *Options) { o.RestLength = l } }

// WithPrior starts nodes found in prior at their earlier position instead of
// on the seeding circle.
func WithPrior(prior map[string]graph.Position) Option {
	return func(o *Options) { o.Prior = prior }
}
