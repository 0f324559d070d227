package cache

// Keyer generates cache keys.
type Keyer interface {
	// SnapshotKey identifies the last good graph fetched from source.
	SnapshotKey(source string) string
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Seed        uint64  `json:"seed"`
	Iterations  int     `json:"iterations"`
	RestLength  float64 `json:"rest_length,omitempty"`
	Repulsion   float64 `json:"repulsion,omitempty"`
	SpringK     float64 `json:"spring_k,omitempty"`
	Gravity     float64 `json:"gravity,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Interactive bool    `json:"interactive,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	// State is a hash of the interaction state (pan, zoom, focus).
	State string `json:"state,omitempty"`
	Demo  bool   `json:"demo,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key generator.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey returns "snapshot:<source>".
func (DefaultKeyer) SnapshotKey(source string) string { return "snapshot:" + source }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
