package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

// GraphProcessorName is the name of the graph-phase processor.
const GraphProcessorName = "npm-graph"

// GraphProcessor builds the session graph from the registry. Each Run gets
// its own [deps.ManifestResolver], so no registry data is shared between
// sessions or runs.
type GraphProcessor struct {
	fetcher deps.Fetcher
	logger  Logger
	local   *graph.PackageNode
}

// NewGraphProcessor returns a graph processor fetching through f.
func NewGraphProcessor(f deps.Fetcher, logger Logger) *GraphProcessor {
	if logger == nil {
		logger = NopLogger{}
	}
	return &GraphProcessor{fetcher: f, logger: logger}
}

// NewLocalGraphProcessor returns a graph processor that expands root (read
// from a local package.json) instead of resolving the session target.
func NewLocalGraphProcessor(f deps.Fetcher, root graph.PackageNode, logger Logger) *GraphProcessor {
	p := NewGraphProcessor(f, logger)
	p.local = &root
	return p
}

func (p *GraphProcessor) Name() string          { return GraphProcessorName }
func (p *GraphProcessor) Phase() session.Phase { return session.PhaseGraph }

// Run resolves the session target and stores the graph.
func (p *GraphProcessor) Run(ctx context.Context, s *session.AnalysisSession) error {
	meta := s.Meta()
	b := deps.NewGraphBuilder(deps.NewManifestResolver(p.fetcher))

	opts := deps.Options{
		MaxDepth: meta.MaxDepth(),
		Kind:     meta.DependencyKind,
		Logger: func(format string, args ...any) {
			p.logger.Info(fmt.Sprintf("[%s] %s", meta.Label(), fmt.Sprintf(format, args...)))
		},
	}

	var g *graph.DependencyGraph
	var err error
	if p.local != nil {
		g, err = b.BuildFrom(ctx, *p.local, opts)
	} else {
		g, err = b.Build(ctx, meta.Target, meta.Requested, opts)
	}
	if err != nil {
		return err
	}
	s.SetResolvedVersion(g.Root().Version)
	return s.SetGraph(g)
}

// CountKey is the annotation key [CountAnnotator] writes.
const CountKey = "deps.count"

// CountAnnotator records every node's direct dependency count under
// [CountKey].
type CountAnnotator struct{}

func (CountAnnotator) Name() string          { return "deps-count" }
func (CountAnnotator) Phase() session.Phase { return session.PhaseAnnotate }

func (CountAnnotator) Run(_ context.Context, s *session.AnalysisSession) error {
	g, err := s.Graph()
	if err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		s.SetAnnotation(n.ID, CountKey, len(g.Dependencies(n.ID)))
	}
	return nil
}
