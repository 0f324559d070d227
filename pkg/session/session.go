// Package session keeps server-side explorer sessions.
//
// A Session is one interactive view of a graph: an interaction.Controller
// holding pan, zoom, hover and selection, and a viewport.Manager that
// relays out the graph when the surface is resized or the data changes.
// Sessions let a remote surface (a browser posting events over HTTP) drive
// the same state machine the terminal explorer drives locally.
//
// # Concurrency
//
// Each session serializes its own events under a mutex, so events of one
// session are applied in arrival order while different sessions proceed in
// parallel. Layout passes run on the viewport manager's timer goroutine and
// are picked up by the next Scene call.
//
// # Usage
//
//	store := session.NewStore(30*time.Minute, 256)
//	sess := session.New(loaded, opts)
//	store.Add(sess)
//
//	sess, err := store.Get(id)
//	if err != nil {
//	    // session.ErrNotFound or session.ErrExpired
//	}
//	sess.HandleEvent(interaction.Event{Type: "hover", Node: "doc-1"})
//	sc := sess.Scene(true)
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/viewport"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 30 * time.Minute

// Session is one explorer view of a graph.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.Mutex
	expiresAt time.Time
	demo      bool
	stale     bool
	loadErr   error
	report    adapter.Report
	opts      pipeline.Options
	ctrl      *interaction.Controller
	vp        *viewport.Manager
}

// Info is the JSON summary of a session.
type Info struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Demo      bool              `json:"demo"`
	Stale     bool              `json:"stale"`
	Error     string            `json:"error,omitempty"`
	Ready     bool              `json:"ready"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	State     interaction.State `json:"state"`
	Stats     graph.Stats       `json:"stats"`
	Report    adapter.Report    `json:"report"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// NewID returns a random session id.
func NewID() string { return uuid.NewString() }

// New creates a session for a loaded graph and schedules its first layout
// at opts.Width × opts.Height. opts must have layout defaults applied.
func New(loaded adapter.Result, opts pipeline.Options, vpOpts ...viewport.Option) *Session {
	now := time.Now()
	s := &Session{
		ID:        NewID(),
		Source:    loaded.Source,
		CreatedAt: now,
		expiresAt: now.Add(DefaultTTL),
		opts:      opts,
		ctrl:      interaction.NewController(),
	}
	s.vp = viewport.New(viewport.ForceLayout(layout.WithOptions(opts.Tuning)), vpOpts...)
	s.setLoaded(loaded)
	s.vp.Observe(opts.Width, opts.Height)
	return s
}

func (s *Session) setLoaded(loaded adapter.Result) bool {
	s.demo, s.stale, s.loadErr, s.report = loaded.Demo, loaded.Stale, loaded.Err, loaded.Report
	return s.vp.SetGraph(loaded.Graph.Nodes, loaded.Graph.Edges)
}

// SetGraph replaces the data shown by the session, as after a reload or a
// filter change. A new layout is scheduled only if the node and edge
// identities changed. It reports whether a pass was scheduled.
func (s *Session) SetGraph(loaded adapter.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	scheduled := s.setLoaded(loaded)
	s.syncLocked()
	return scheduled
}

// HandleEvent applies one input event.
func (s *Session) HandleEvent(e interaction.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if err := s.ctrl.HandleEvent(e); err != nil {
		return kberrors.Wrap(kberrors.ErrCodeInvalidEvent, err, "session %s", s.ID)
	}
	return nil
}

// Resize records a new surface size and reports whether a relayout was
// scheduled.
func (s *Session) Resize(width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp.Observe(width, height)
}

// Scene builds the current scene. With flush set, a pending layout pass
// runs first so the scene is never marked busy.
func (s *Session) Scene(flush bool) scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flush {
		s.vp.Flush()
	}
	s.syncLocked()

	nodes, edges := s.ctrl.Index().Nodes(), s.ctrl.Index().ResolvedEdges()
	w, h := s.vp.Size()
	opts := s.opts.SceneOptions(graph.Layout{Width: w, Height: h}, s.demo)
	opts.Busy = !s.vp.Ready()
	return scene.Build(nodes, edges, s.ctrl.State(), opts)
}

// Layout returns the most recent positioned graph.
func (s *Session) Layout() graph.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	w, h := s.vp.Size()
	return graph.Layout{
		Width:  w,
		Height: h,
		Seed:   s.opts.Tuning.Seed,
		Nodes:  s.ctrl.Index().Nodes(),
		Edges:  s.ctrl.Index().ResolvedEdges(),
	}
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	w, h := s.vp.Size()
	info := Info{
		ID:        s.ID,
		Source:    s.Source,
		Demo:      s.demo,
		Stale:     s.stale,
		Ready:     s.vp.Ready(),
		Width:     w,
		Height:    h,
		State:     s.ctrl.State(),
		Stats:     s.ctrl.Index().Stats(),
		Report:    s.report,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.expiresAt,
	}
	if s.loadErr != nil {
		info.Error = kberrors.UserMessage(s.loadErr)
	}
	return info
}

// Options returns the render options of the session.
func (s *Session) Options() pipeline.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Close cancels any pending layout pass.
func (s *Session) Close() { s.vp.Close() }

// syncLocked hands the latest positions to the controller. Before the
// first pass the controller sees the graph without positions, so hover and
// selection already work on node ids.
func (s *Session) syncLocked() {
	nodes, edges := s.vp.Graph()
	if s.vp.Passes() > 0 {
		nodes = s.vp.Positions()
	}
	s.ctrl.SetGraph(nodes, edges)
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

func (s *Session) expiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}
