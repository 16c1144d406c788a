// Package session defines the state of one analysis run.
//
// An [AnalysisSession] carries:
//   - [Meta]: what is being analyzed (target, range, depth, dependency kind)
//   - the ordered [Processor] list the engine runs over it
//   - a set-once dependency graph, written by the graph phase
//   - a per-node annotation store, written by the annotate phase
//
// The graph slot has explicit state. Reading it before it is set, or setting
// it twice, fails with GRAPH_STATE:
//
//	s := session.New(session.Meta{Target: "express", Requested: "^4"}, procs...)
//	_, err := s.Graph()           // GRAPH_STATE: not built yet
//	_ = s.SetGraph(g)
//	err = s.SetGraph(g)           // GRAPH_STATE: already set
//
// Sessions are not safe for concurrent mutation. The engine runs phases
// sequentially; after the annotate phase a session is only read.
package session

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/graph"
)

// Phase tags when a processor runs.
type Phase string

const (
	PhaseGraph    Phase = "graph"
	PhaseAnnotate Phase = "annotate"
)

// Phases is the fixed order the engine runs phases in.
var Phases = []Phase{PhaseGraph, PhaseAnnotate}

// Processor is one step of a session's pipeline.
type Processor interface {
	Name() string
	Phase() Phase
	Run(ctx context.Context, s *AnalysisSession) error
}

// Meta describes the run.
type Meta struct {
	ID        string
	Target    string
	Requested string
	// ResolvedVersion is empty until the graph phase resolves the root.
	ResolvedVersion string
	// ConfigHash identifies the configuration the session was created for
	// (the rule id for lint sessions).
	ConfigHash     string
	Timestamp      time.Time
	Depth          *int // nil means unlimited
	DependencyKind deps.DependencyKind
}

// MaxDepth returns Depth as a builder limit.
func (m Meta) MaxDepth() int {
	if m.Depth == nil {
		return deps.Unlimited
	}
	return *m.Depth
}

// Label is "target@requested".
func (m Meta) Label() string {
	return m.Target + "@" + m.Requested
}

// AnalysisSession is the state of one run over one target.
type AnalysisSession struct {
	meta        Meta
	processors  []Processor
	graph       *graph.DependencyGraph
	graphSet    bool
	annotations map[graph.PackageID]map[string]any
}

// New creates a session. A missing ID and Timestamp are filled in.
func New(meta Meta, processors ...Processor) *AnalysisSession {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	return &AnalysisSession{
		meta:        meta,
		processors:  slices.Clone(processors),
		annotations: make(map[graph.PackageID]map[string]any),
	}
}

// Meta returns the session metadata.
func (s *AnalysisSession) Meta() Meta { return s.meta }

// SetResolvedVersion records the version the root range resolved to.
func (s *AnalysisSession) SetResolvedVersion(v string) { s.meta.ResolvedVersion = v }

// Processors returns the processors in run order.
func (s *AnalysisSession) Processors() []Processor { return slices.Clone(s.processors) }

// ProcessorsFor returns the processors tagged with phase, in run order.
func (s *AnalysisSession) ProcessorsFor(phase Phase) []Processor {
	var out []Processor
	for _, p := range s.processors {
		if p.Phase() == phase {
			out = append(out, p)
		}
	}
	return out
}

// HasGraph reports whether the graph has been set.
func (s *AnalysisSession) HasGraph() bool { return s.graphSet }

// Graph returns the session graph, or GRAPH_STATE if it is not set yet.
func (s *AnalysisSession) Graph() (*graph.DependencyGraph, error) {
	if !s.graphSet {
		return nil, apperrors.New(apperrors.ErrCodeGraphState, "graph for %s accessed before it was built", s.meta.Label())
	}
	return s.graph, nil
}

// SetGraph stores the session graph. It may be called once.
func (s *AnalysisSession) SetGraph(g *graph.DependencyGraph) error {
	if s.graphSet {
		return apperrors.New(apperrors.ErrCodeGraphState, "graph for %s already set", s.meta.Label())
	}
	if g == nil {
		return apperrors.New(apperrors.ErrCodeGraphState, "graph for %s is nil", s.meta.Label())
	}
	s.graph = g
	s.graphSet = true
	return nil
}

// SetAnnotation stores value under key for a node, replacing any earlier value.
func (s *AnalysisSession) SetAnnotation(id graph.PackageID, key string, value any) {
	m, ok := s.annotations[id]
	if !ok {
		m = make(map[string]any)
		s.annotations[id] = m
	}
	m[key] = value
}

// Annotation returns the value stored under key for a node.
func (s *AnalysisSession) Annotation(id graph.PackageID, key string) (any, bool) {
	v, ok := s.annotations[id][key]
	return v, ok
}

// AllAnnotations returns a copy of every annotation stored for a node.
func (s *AnalysisSession) AllAnnotations(id graph.PackageID) map[string]any {
	return maps.Clone(s.annotations[id])
}
