package lint

import (
	"context"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/pipeline"
	"github.com/matzehuels/deplint/pkg/session"
)

// AnnotateProcessor stores one rule's annotations on every node of a
// session graph. Rules without [Annotator] store nothing.
type AnnotateProcessor struct {
	config RuleConfig
}

// NewAnnotateProcessor returns the annotate-phase processor for c.
func NewAnnotateProcessor(c RuleConfig) *AnnotateProcessor {
	return &AnnotateProcessor{config: c}
}

func (p *AnnotateProcessor) Name() string          { return "lint-annotate:" + p.config.Rule.ID() }
func (p *AnnotateProcessor) Phase() session.Phase { return session.PhaseAnnotate }

func (p *AnnotateProcessor) Run(_ context.Context, s *session.AnalysisSession) error {
	a, ok := p.config.Rule.(Annotator)
	if !ok {
		return nil
	}
	g, err := s.Graph()
	if err != nil {
		return err
	}
	key := AnnotationKey(p.config.Rule.ID())
	for _, n := range g.Nodes() {
		if v, ok := a.Annotate(n, p.config.Options); ok {
			s.SetAnnotation(n.ID, key, v)
		}
	}
	return nil
}

// Target is what a lint run analyzes.
type Target struct {
	Name      string
	Requested string
	Depth     *int
	Kind      deps.DependencyKind
	// Local, when set, is the root read from a package.json; Name and
	// Requested then only label the sessions.
	Local *graph.PackageNode
}

// SessionFactory creates lint sessions.
type SessionFactory struct {
	fetcher deps.Fetcher
	logger  pipeline.Logger
}

// NewSessionFactory returns a factory whose sessions fetch through f.
func NewSessionFactory(f deps.Fetcher, logger pipeline.Logger) *SessionFactory {
	return &SessionFactory{fetcher: f, logger: logger}
}

// CreateSessions returns one session per config, in config order. Each
// session builds its own graph of t and runs the config's annotate
// processor; its ConfigHash is the rule id.
func (f *SessionFactory) CreateSessions(t Target, configs []RuleConfig) []*session.AnalysisSession {
	sessions := make([]*session.AnalysisSession, 0, len(configs))
	for _, c := range configs {
		var gp *pipeline.GraphProcessor
		if t.Local != nil {
			gp = pipeline.NewLocalGraphProcessor(f.fetcher, *t.Local, f.logger)
		} else {
			gp = pipeline.NewGraphProcessor(f.fetcher, f.logger)
		}
		meta := session.Meta{
			Target:         t.Name,
			Requested:      t.Requested,
			ConfigHash:     c.Rule.ID(),
			Depth:          t.Depth,
			DependencyKind: t.Kind,
		}
		sessions = append(sessions, session.New(meta, gp, NewAnnotateProcessor(c)))
	}
	return sessions
}
