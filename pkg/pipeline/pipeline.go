// Package pipeline runs analysis sessions through their processors and hands
// the finished sessions to reporters.
//
// # Phases
//
// Every session runs phase "graph" and then phase "annotate". Within a phase
// the session's processors tagged with that phase run in list order. Before
// each processor the engine logs "[target@requested] Running processor: name".
//
// # Reporting
//
// Reporters run once, after every session has finished both phases, and
// receive all sessions together so they can correlate across them.
//
// # Failure
//
// The first processor error aborts the run: no further processors or
// sessions run and no reporter runs. A [Lifecycle] logger is stopped whether
// the run succeeds or not.
//
//	engine := pipeline.NewEngine(logger, report.NewTree(os.Stdout))
//	s := session.New(meta, pipeline.NewGraphProcessor(client, logger))
//	err := engine.Run(ctx, []*session.AnalysisSession{s})
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/deplint/pkg/observability"
	"github.com/matzehuels/deplint/pkg/session"
)

// Reporter consumes finished sessions.
type Reporter interface {
	Name() string
	Report(ctx context.Context, sessions []*session.AnalysisSession) error
}

// Engine runs sessions and reporters.
type Engine struct {
	logger    Logger
	reporters []Reporter
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger Logger, reporters ...Reporter) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{logger: logger, reporters: reporters}
}

// Run processes sessions in order and then invokes every reporter.
func (e *Engine) Run(ctx context.Context, sessions []*session.AnalysisSession) error {
	if err := e.runSessions(ctx, sessions); err != nil {
		return err
	}

	hooks := observability.Pipeline()
	for _, r := range e.reporters {
		start := time.Now()
		err := r.Report(ctx, sessions)
		hooks.OnReport(ctx, r.Name(), len(sessions), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("reporter %s: %w", r.Name(), err)
		}
	}
	return nil
}

func (e *Engine) runSessions(ctx context.Context, sessions []*session.AnalysisSession) error {
	if lc, ok := e.logger.(Lifecycle); ok {
		lc.Start()
		defer lc.Stop()
	}

	hooks := observability.Pipeline()
	for _, s := range sessions {
		meta := s.Meta()
		hooks.OnSessionStart(ctx, meta.Target, meta.Requested)
		start := time.Now()

		err := e.runSession(ctx, s)

		nodes := 0
		if g, gerr := s.Graph(); gerr == nil {
			nodes = g.NodeCount()
		}
		hooks.OnSessionComplete(ctx, meta.Target, meta.Requested, nodes, time.Since(start), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runSession(ctx context.Context, s *session.AnalysisSession) error {
	for _, phase := range session.Phases {
		if err := e.runPhase(ctx, phase, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runPhase(ctx context.Context, phase session.Phase, s *session.AnalysisSession) error {
	hooks := observability.Pipeline()
	label := s.Meta().Label()

	for _, p := range s.ProcessorsFor(phase) {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.logger.Info(fmt.Sprintf("[%s] Running processor: %s", label, p.Name()))

		hooks.OnProcessorStart(ctx, p.Name(), string(phase))
		start := time.Now()
		err := p.Run(ctx, s)
		hooks.OnProcessorComplete(ctx, p.Name(), string(phase), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("[%s] %s: %w", label, p.Name(), err)
		}
	}
	return nil
}
