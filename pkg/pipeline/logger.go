package pipeline

import "github.com/charmbracelet/log"

// Logger receives progress and diagnostics from the engine and processors.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Lifecycle is implemented by loggers that need to bracket a run, such as a
// terminal spinner. The engine calls Start before the first session and Stop
// after the last one, or after a failure.
type Lifecycle interface {
	Start()
	Stop()
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(string)  {}
func (NopLogger) Warn(string)  {}
func (NopLogger) Error(string) {}

// CharmLogger adapts a charmbracelet logger to [Logger].
type CharmLogger struct {
	l *log.Logger
}

// NewCharmLogger wraps l. A nil l uses the default logger.
func NewCharmLogger(l *log.Logger) *CharmLogger {
	if l == nil {
		l = log.Default()
	}
	return &CharmLogger{l: l}
}

func (c *CharmLogger) Info(msg string)  { c.l.Info(msg) }
func (c *CharmLogger) Warn(msg string)  { c.l.Warn(msg) }
func (c *CharmLogger) Error(msg string) { c.l.Error(msg) }
