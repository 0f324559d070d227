package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	"github.com/matzehuels/kbgraph/pkg/buildinfo"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/session"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type createRequest struct {
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Style       string   `json:"style"`
	Types       []string `json:"types"`
	Interactive bool     `json:"interactive"`
	LabelBudget int      `json:"label_budget"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type graphResponse struct {
	Source string         `json:"source"`
	Demo   bool           `json:"demo"`
	Stale  bool           `json:"stale"`
	Error  string         `json:"error,omitempty"`
	Report adapter.Report `json:"report"`
	Graph  *graph.Graph   `json:"graph,omitempty"`
	Stats  *graph.Stats   `json:"stats,omitempty"`
}

type updateResponse struct {
	Scheduled bool         `json:"scheduled"`
	Session   session.Info `json:"session"`
}

func loadResponse(res adapter.Result) graphResponse {
	out := graphResponse{Source: res.Source, Demo: res.Demo, Stale: res.Stale, Report: res.Report}
	if res.Err != nil {
		out.Error = kberrors.UserMessage(res.Err)
	}
	return out
}

// =============================================================================
// Graph Endpoints
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Get().Version,
		"sessions": s.store.Len(),
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.queryOptions(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	res := s.runner.Load(r.Context(), s.source, opts)
	out := loadResponse(res)
	out.Graph = &res.Graph
	respondJSON(w, s.logger, http.StatusOK, out)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	opts, err := s.queryOptions(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	res := s.runner.Load(r.Context(), s.source, opts)
	stats := graph.NewIndex(res.Graph.Nodes, res.Graph.Edges).Stats()
	out := loadResponse(res)
	out.Stats = &stats
	respondJSON(w, s.logger, http.StatusOK, out)
}

func (s *Server) renderOnce(w http.ResponseWriter, r *http.Request) {
	opts, err := s.queryOptions(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		respondError(w, s.logger, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), s.source, opts)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondArtifact(w, format, res.Artifacts[format], res.Load.Demo)
}

// queryOptions overlays ?width, ?height, ?style and ?types on the defaults.
func (s *Server) queryOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	for _, dim := range []struct {
		key string
		dst *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		v := q.Get(dim.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, kberrors.Wrap(kberrors.ErrCodeInvalidSize, err, "%s must be a number", dim.key)
		}
		*dim.dst = f
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("types"); v != "" {
		types, err := adapter.ParseTypes(v)
		if err != nil {
			return opts, err
		}
		opts.Types = types
	}
	return opts, nil
}

// =============================================================================
// Session Endpoints
// =============================================================================

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	opts := s.defaults
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	if req.Style != "" {
		opts.Style = req.Style
	}
	if len(req.Types) > 0 {
		types, err := adapter.ParseTypes(strings.Join(req.Types, ","))
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		opts.Types = types
	}
	opts.Interactive = opts.Interactive || req.Interactive
	if req.LabelBudget > 0 {
		opts.LabelBudget = req.LabelBudget
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		respondError(w, s.logger, err)
		return
	}

	res := s.runner.Load(r.Context(), s.source, opts)
	sess := session.New(res, opts, s.vpOpts...)
	s.store.Add(sess)
	s.logger.Debug("session created", "id", sess.ID, "source", res.Source, "demo", res.Demo)

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	respondJSON(w, s.logger, http.StatusCreated, sess.Info())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, s.logger, http.StatusOK, sess.Info())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		respondError(w, s.logger, kberrors.New(kberrors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postEvents accepts a single event object or an array of events, applied
// in order. Processing stops at the first invalid event; earlier events
// stay applied.
func (s *Server) postEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	events, err := decodeEvents(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	for i, e := range events {
		if err := sess.HandleEvent(e); err != nil {
			respondError(w, s.logger, kberrors.Wrap(kberrors.ErrCodeInvalidEvent, err, "event %d: unknown type %q", i, e.Type))
			return
		}
	}
	respondJSON(w, s.logger, http.StatusOK, sess.Info())
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	scheduled := sess.Resize(req.Width, req.Height)
	respondJSON(w, s.logger, http.StatusOK, updateResponse{Scheduled: scheduled, Session: sess.Info()})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res := s.runner.Load(r.Context(), s.source, sess.Options())
	scheduled := sess.SetGraph(res)
	respondJSON(w, s.logger, http.StatusOK, updateResponse{Scheduled: scheduled, Session: sess.Info()})
}

// getScene renders the current scene. Unless ?flush=false, a pending
// layout pass is completed first.
func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	opts := sess.Options()
	opts.Formats = []string{format}
	if v := r.URL.Query().Get("style"); v != "" {
		opts.Style = v
	}
	if err := opts.ValidateForRender(); err != nil {
		respondError(w, s.logger, err)
		return
	}

	sc := sess.Scene(r.URL.Query().Get("flush") != "false")
	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), sc, opts)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondArtifact(w, format, artifacts[format], sc.Demo)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, s.logger, http.StatusOK, sess.Layout())
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(id)
	if err != nil {
		respondError(w, s.logger, kberrors.Wrap(kberrors.ErrCodeSessionNotFound, err, "session %s %s", id, err))
		return nil, false
	}
	return sess, true
}

// =============================================================================
// Decoding
// =============================================================================

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidInput, err, "read body")
	}
	if len(data) > maxBodyBytes {
		return nil, kberrors.New(kberrors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBodyBytes)
	}
	return bytes.TrimSpace(data), nil
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil || len(data) == 0 {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return kberrors.Wrap(kberrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

func decodeEvents(r *http.Request) ([]interaction.Event, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, kberrors.New(kberrors.ErrCodeInvalidEvent, "no events")
	}
	var events []interaction.Event
	if data[0] == '[' {
		err = json.Unmarshal(data, &events)
	} else {
		var e interaction.Event
		err = json.Unmarshal(data, &e)
		events = append(events, e)
	}
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidEvent, err, "invalid event JSON")
	}
	return events, nil
}
