package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/deps/depstest"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

// recorder is a Lifecycle logger that keeps every event in order.
type recorder struct {
	events []string
}

func (r *recorder) Info(msg string)  { r.events = append(r.events, "info "+msg) }
func (r *recorder) Warn(msg string)  { r.events = append(r.events, "warn "+msg) }
func (r *recorder) Error(msg string) { r.events = append(r.events, "error "+msg) }
func (r *recorder) Start()           { r.events = append(r.events, "start") }
func (r *recorder) Stop()            { r.events = append(r.events, "stop") }

type fakeProcessor struct {
	name  string
	phase session.Phase
	log   *recorder
	err   error
}

func (p fakeProcessor) Name() string          { return p.name }
func (p fakeProcessor) Phase() session.Phase { return p.phase }
func (p fakeProcessor) Run(_ context.Context, s *session.AnalysisSession) error {
	p.log.events = append(p.log.events, "run "+s.Meta().Target+"/"+p.name)
	return p.err
}

type fakeReporter struct {
	name string
	log  *recorder
	got  [][]*session.AnalysisSession
}

func (r *fakeReporter) Name() string { return r.name }
func (r *fakeReporter) Report(_ context.Context, sessions []*session.AnalysisSession) error {
	r.log.events = append(r.log.events, fmt.Sprintf("report %s %d", r.name, len(sessions)))
	r.got = append(r.got, sessions)
	return nil
}

func TestEngineOrdering(t *testing.T) {
	log := &recorder{}
	mk := func(target string) *session.AnalysisSession {
		return session.New(session.Meta{Target: target, Requested: "1"},
			fakeProcessor{"ann1", session.PhaseAnnotate, log, nil},
			fakeProcessor{"graph", session.PhaseGraph, log, nil},
			fakeProcessor{"ann2", session.PhaseAnnotate, log, nil},
		)
	}
	a, b := mk("a"), mk("b")
	r1 := &fakeReporter{name: "r1", log: log}
	r2 := &fakeReporter{name: "r2", log: log}

	require.NoError(t, NewEngine(log, r1, r2).Run(context.Background(), []*session.AnalysisSession{a, b}))

	assert.Equal(t, []string{
		"start",
		"info [a@1] Running processor: graph", "run a/graph",
		"info [a@1] Running processor: ann1", "run a/ann1",
		"info [a@1] Running processor: ann2", "run a/ann2",
		"info [b@1] Running processor: graph", "run b/graph",
		"info [b@1] Running processor: ann1", "run b/ann1",
		"info [b@1] Running processor: ann2", "run b/ann2",
		"stop",
		"report r1 2",
		"report r2 2",
	}, log.events)

	require.Len(t, r1.got, 1, "reporter runs once with all sessions")
	assert.Equal(t, []*session.AnalysisSession{a, b}, r1.got[0])
}

func TestEngineAbortsOnFirstError(t *testing.T) {
	log := &recorder{}
	boom := errors.New("boom")
	a := session.New(session.Meta{Target: "a", Requested: "1"},
		fakeProcessor{"graph", session.PhaseGraph, log, boom},
		fakeProcessor{"ann", session.PhaseAnnotate, log, nil},
	)
	b := session.New(session.Meta{Target: "b", Requested: "1"},
		fakeProcessor{"graph", session.PhaseGraph, log, nil},
	)
	rep := &fakeReporter{name: "r", log: log}

	err := NewEngine(log, rep).Run(context.Background(), []*session.AnalysisSession{a, b})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"start",
		"info [a@1] Running processor: graph", "run a/graph",
		"stop",
	}, log.events)
	assert.Empty(t, rep.got)
}

func TestEngineWithoutLifecycle(t *testing.T) {
	rep := &fakeReporter{name: "r", log: &recorder{}}
	require.NoError(t, NewEngine(nil, rep).Run(context.Background(), nil))
	require.Len(t, rep.got, 1)
	assert.Empty(t, rep.got[0])
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log := &recorder{}
	s := session.New(session.Meta{Target: "a"}, fakeProcessor{"graph", session.PhaseGraph, log, nil})

	err := NewEngine(log).Run(ctx, []*session.AnalysisSession{s})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"start", "stop"}, log.events)
}

func TestGraphProcessor(t *testing.T) {
	reg := depstest.Chain()
	depth := 1
	s := session.New(session.Meta{Target: "root", Requested: "^1.0.0", Depth: &depth},
		NewGraphProcessor(reg, nil),
		CountAnnotator{},
	)

	require.NoError(t, NewEngine(nil).Run(context.Background(), []*session.AnalysisSession{s}))

	g, err := s.Graph()
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, "1.0.0", s.Meta().ResolvedVersion)

	count, ok := s.Annotation("root@1.0.0", CountKey)
	require.True(t, ok)
	assert.Equal(t, 1, count)
	count, _ = s.Annotation("dep1@1.0.0", CountKey)
	assert.Equal(t, 0, count)
}

func TestGraphProcessorFreshResolverPerRun(t *testing.T) {
	reg := depstest.Chain()
	p := NewGraphProcessor(reg, nil)
	sessions := []*session.AnalysisSession{
		session.New(session.Meta{Target: "root", Requested: "1.0.0"}, p),
		session.New(session.Meta{Target: "root", Requested: "1.0.0"}, p),
	}

	require.NoError(t, NewEngine(nil).Run(context.Background(), sessions))
	assert.Equal(t, 2, reg.Fetches("root"))
	assert.Equal(t, 2, reg.Fetches("dep2"))
}

func TestGraphProcessorDevKind(t *testing.T) {
	s := session.New(session.Meta{Target: "root", Requested: "latest", DependencyKind: deps.KindDevDependencies},
		NewGraphProcessor(depstest.Chain(), nil))
	require.NoError(t, NewEngine(nil).Run(context.Background(), []*session.AnalysisSession{s}))

	g, _ := s.Graph()
	assert.True(t, g.HasNode("devDep2@1.0.0"))
	assert.False(t, g.HasNode("dep1@1.0.0"))
}

func TestGraphProcessorError(t *testing.T) {
	s := session.New(session.Meta{Target: "missing", Requested: "latest"}, NewGraphProcessor(depstest.New(), nil))
	err := NewEngine(nil).Run(context.Background(), []*session.AnalysisSession{s})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRegistry))
	assert.False(t, s.HasGraph(), "no partial graph is committed")
}

func TestLocalGraphProcessor(t *testing.T) {
	reg := depstest.Chain()
	root := graph.PackageNode{
		ID: "app@0.1.0", Name: "app", Version: "0.1.0", Source: graph.SourceRegistry,
		Manifest: &deps.Manifest{Name: "app", Version: "0.1.0", Dependencies: map[string]string{"dep2": "1.0.0"}},
	}
	s := session.New(session.Meta{Target: "app", Requested: "local"}, NewLocalGraphProcessor(reg, root, nil))

	require.NoError(t, NewEngine(nil).Run(context.Background(), []*session.AnalysisSession{s}))
	g, _ := s.Graph()
	assert.Equal(t, "app@0.1.0", g.RootID())
	assert.True(t, g.HasEdge("app@0.1.0", "dep2@1.0.0"))
	assert.Zero(t, reg.Fetches("app"), "local root is not fetched")
	assert.Equal(t, "0.1.0", s.Meta().ResolvedVersion)
}
