package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/graph"
)

type stubProcessor struct {
	name  string
	phase Phase
}

func (p stubProcessor) Name() string                                { return p.name }
func (p stubProcessor) Phase() Phase                                { return p.phase }
func (p stubProcessor) Run(context.Context, *AnalysisSession) error { return nil }

func testGraph() *graph.DependencyGraph {
	return graph.New(graph.PackageNode{ID: "root@1.0.0", Name: "root", Version: "1.0.0"})
}

func TestGraphSetOnce(t *testing.T) {
	s := New(Meta{Target: "root", Requested: "^1.0.0"})

	assert.False(t, s.HasGraph())
	_, err := s.Graph()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeGraphState))

	g := testGraph()
	require.NoError(t, s.SetGraph(g))
	got, err := s.Graph()
	require.NoError(t, err)
	assert.Same(t, g, got)

	err = s.SetGraph(testGraph())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeGraphState))
	got, _ = s.Graph()
	assert.Same(t, g, got, "failed second set keeps the first graph")
}

func TestSetNilGraph(t *testing.T) {
	s := New(Meta{Target: "root"})
	err := s.SetGraph(nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeGraphState))
	assert.False(t, s.HasGraph())
}

func TestAnnotations(t *testing.T) {
	s := New(Meta{Target: "root"})

	_, ok := s.Annotation("a@1.0.0", "lint.max-deps")
	assert.False(t, ok)

	s.SetAnnotation("a@1.0.0", "lint.max-deps", 3)
	s.SetAnnotation("a@1.0.0", "lint.max-deps", 4)
	s.SetAnnotation("a@1.0.0", "deps.count", 1)

	v, ok := s.Annotation("a@1.0.0", "lint.max-deps")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	all := s.AllAnnotations("a@1.0.0")
	assert.Equal(t, map[string]any{"lint.max-deps": 4, "deps.count": 1}, all)
	all["x"] = true
	_, ok = s.Annotation("a@1.0.0", "x")
	assert.False(t, ok, "AllAnnotations returns a copy")

	assert.Nil(t, s.AllAnnotations("unknown"))
}

func TestNewFillsMeta(t *testing.T) {
	s := New(Meta{Target: "react", Requested: "latest"})
	m := s.Meta()
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())
	assert.Equal(t, "react@latest", m.Label())
	assert.Equal(t, deps.Unlimited, m.MaxDepth())
	assert.Empty(t, m.ResolvedVersion)

	depth := 2
	assert.Equal(t, 2, Meta{Depth: &depth}.MaxDepth())

	s.SetResolvedVersion("18.2.0")
	assert.Equal(t, "18.2.0", s.Meta().ResolvedVersion)
}

func TestProcessorsFor(t *testing.T) {
	s := New(Meta{Target: "x"},
		stubProcessor{"a", PhaseAnnotate},
		stubProcessor{"g", PhaseGraph},
		stubProcessor{"b", PhaseAnnotate},
	)

	names := func(ps []Processor) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name())
		}
		return out
	}
	assert.Equal(t, []string{"g"}, names(s.ProcessorsFor(PhaseGraph)))
	assert.Equal(t, []string{"a", "b"}, names(s.ProcessorsFor(PhaseAnnotate)))
	assert.Len(t, s.Processors(), 3)
}
