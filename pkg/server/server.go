// Package server exposes the explorer over HTTP.
//
// A browser (or any client) creates a session, posts pointer, key and
// resize events to it and fetches the resulting scene as SVG, PNG, JSON or
// DOT. All interaction logic runs server-side in the same controller the
// terminal explorer uses.
//
// # Endpoints
//
//	GET    /healthz
//	GET    /api/graph                        validated graph + load status
//	GET    /api/stats                        degree statistics
//	GET    /api/render/{format}              one-shot render at default size
//	POST   /api/sessions                     create a session
//	GET    /api/sessions/{id}                session summary
//	DELETE /api/sessions/{id}
//	POST   /api/sessions/{id}/events         one event or an array of events
//	POST   /api/sessions/{id}/resize         {"width": w, "height": h}
//	POST   /api/sessions/{id}/reload         refetch from the data source
//	GET    /api/sessions/{id}/scene/{format} current scene
//	GET    /api/sessions/{id}/layout         positioned graph
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/session"
	"github.com/matzehuels/kbgraph/pkg/viewport"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
	maxBodyBytes    = 1 << 20
)

// Server serves explorer sessions for one data source.
type Server struct {
	runner   *pipeline.Runner
	source   adapter.Source
	store    *session.Store
	logger   *log.Logger
	defaults pipeline.Options
	vpOpts   []viewport.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithStore sets the session store. The default expires sessions after
// session.DefaultTTL and holds at most 256.
func WithStore(st *session.Store) Option { return func(s *Server) { s.store = st } }

// WithDefaults sets the options new sessions and one-shot renders start
// from. Request fields override them.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// WithViewportOptions tunes the relayout behavior of new sessions.
func WithViewportOptions(opts ...viewport.Option) Option {
	return func(s *Server) { s.vpOpts = opts }
}

// New creates a server for src. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, src adapter.Source, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		source: src,
		store:  session.NewStore(session.DefaultTTL, 256),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.defaults.SetLayoutDefaults()
	s.defaults.SetRenderDefaults()
	return s
}

// Store returns the session store.
func (s *Server) Store() *session.Store { return s.store }

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.getGraph)
		r.Get("/stats", s.getStats)
		r.Get("/render/{format}", s.renderOnce)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Post("/events", s.postEvents)
				r.Post("/resize", s.resize)
				r.Post("/reload", s.reload)
				r.Get("/scene/{format}", s.getScene)
				r.Get("/layout", s.getLayout)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.store.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Cleanup(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n, "live", s.store.Len())
			}
		}
	}
}
