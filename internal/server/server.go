// Package server exposes tree and lint runs over a JSON HTTP API.
//
// Routes:
//
//	GET  /v1/tree/{name}?range=&depth=&kind=&annotate=
//	POST /v1/lint
//	GET  /v1/version
//	GET  /healthz
//	GET  /metrics
//
// Every request runs its own pipeline with fresh sessions, so concurrent
// requests share nothing but the registry transport.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/deplint/pkg/buildinfo"
	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/lint"
	"github.com/matzehuels/deplint/pkg/lint/rules"
	"github.com/matzehuels/deplint/pkg/pipeline"
	"github.com/matzehuels/deplint/pkg/report"
	"github.com/matzehuels/deplint/pkg/session"
)

// DefaultRequestTimeout bounds one API request, registry fetches included.
const DefaultRequestTimeout = 2 * time.Minute

// Server handles API requests.
type Server struct {
	fetcher deps.Fetcher
	rules   *lint.Registry
	logger  *log.Logger
	metrics *Metrics
	timeout time.Duration
}

// New returns a server resolving packages through f. metrics may be nil, in
// which case /metrics is not served.
func New(f deps.Fetcher, logger *log.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		fetcher: f,
		rules:   rules.Registry(),
		logger:  logger,
		metrics: metrics,
		timeout: DefaultRequestTimeout,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	if s.metrics != nil {
		r.Use(s.count)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/version", s.handleVersion)
	r.Get("/v1/tree/*", s.handleTree)
	r.Post("/v1/lint", s.handleLint)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.httpRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid package name"))
		return
	}
	q := r.URL.Query()
	t, err := parseTarget(name, q.Get("range"), q.Get("depth"), q.Get("kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	procs := []session.Processor{pipeline.NewGraphProcessor(s.fetcher, s.pipelineLogger())}
	if annotate, _ := strconv.ParseBool(q.Get("annotate")); annotate {
		procs = append(procs, pipeline.CountAnnotator{})
	}
	sess := session.New(session.Meta{
		Target:         t.Name,
		Requested:      t.Requested,
		Depth:          t.Depth,
		DependencyKind: t.Kind,
	}, procs...)

	var buf bytes.Buffer
	engine := pipeline.NewEngine(s.pipelineLogger(), report.NewJSON(&buf))
	if err := engine.Run(r.Context(), []*session.AnalysisSession{sess}); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// LintRequest is the body of POST /v1/lint.
type LintRequest struct {
	Target string          `json:"target"`
	Range  string          `json:"range,omitempty"`
	Depth  *int            `json:"depth,omitempty"`
	Kind   string          `json:"kind,omitempty"`
	Rules  []lint.RuleSpec `json:"rules"`
}

// LintResponse is the answer to POST /v1/lint.
type LintResponse struct {
	Target          string `json:"target"`
	ResolvedVersion string `json:"resolved_version"`
	*lint.Findings
	Output string `json:"output"`
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req LintRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Rules) == 0 {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "at least one rule is required"))
		return
	}

	depth := ""
	if req.Depth != nil {
		depth = strconv.Itoa(*req.Depth)
	}
	t, err := parseTarget(req.Target, req.Range, depth, req.Kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	configs, err := lint.Resolve(req.Rules, s.rules)
	if err != nil {
		s.writeError(w, err)
		return
	}

	logger := s.pipelineLogger()
	sessions := lint.NewSessionFactory(s.fetcher, logger).CreateSessions(t, configs)

	var out bytes.Buffer
	rep := lint.NewReporter(&out, configs, logger)
	if err := pipeline.NewEngine(logger, rep).Run(r.Context(), sessions); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LintResponse{
		Target:          t.Name,
		ResolvedVersion: sessions[0].Meta().ResolvedVersion,
		Findings:        rep.Findings(),
		Output:          out.String(),
	})
}

func (s *Server) pipelineLogger() pipeline.Logger {
	return pipeline.NewCharmLogger(s.logger)
}

// parseTarget validates request parameters. An empty range means the latest
// dist-tag and an empty depth means unlimited.
func parseTarget(name, rng, depth, kind string) (lint.Target, error) {
	if err := apperrors.ValidatePackageName(name); err != nil {
		return lint.Target{}, err
	}
	if rng == "" {
		rng = deps.DefaultTag
	}
	if err := apperrors.ValidateRange(rng); err != nil {
		return lint.Target{}, err
	}
	t := lint.Target{Name: name, Requested: rng}

	if depth != "" {
		d, err := strconv.Atoi(depth)
		if err != nil || d < 0 {
			return lint.Target{}, apperrors.New(apperrors.ErrCodeInvalidInput, "depth must be a non-negative integer, got %q", depth)
		}
		t.Depth = &d
	}

	k, err := deps.ParseDependencyKind(kind)
	if err != nil {
		return lint.Target{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid kind")
	}
	t.Kind = k
	return t, nil
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
