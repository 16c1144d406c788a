package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 42 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// progressLogger is the pipeline logger of interactive runs. Between Start
// and Stop, info messages replace the spinner text instead of scrolling;
// warnings and errors are logged above the spinner line.
type progressLogger struct {
	logger  *log.Logger
	spinner *Spinner // nil when output is not a terminal
	active  bool
}

// newProgressLogger returns a logger that draws a spinner on w when
// interactive is set, and logs plainly otherwise.
func newProgressLogger(ctx context.Context, l *log.Logger, w io.Writer, interactive bool) *progressLogger {
	p := &progressLogger{logger: l}
	if interactive {
		p.spinner = newSpinnerWithContext(ctx, w, "Resolving dependencies...")
	}
	return p
}

func (p *progressLogger) Start() {
	if p.spinner == nil || p.active {
		return
	}
	p.spinner.Start()
	p.active = true
}

func (p *progressLogger) Stop() {
	if !p.active {
		return
	}
	p.spinner.Stop()
	p.active = false
}

func (p *progressLogger) Info(msg string) {
	if p.active {
		p.spinner.SetMessage(msg)
		return
	}
	p.logger.Info(msg)
}

func (p *progressLogger) Warn(msg string) {
	if p.active {
		p.spinner.Suspend(func() { p.logger.Warn(msg) })
		return
	}
	p.logger.Warn(msg)
}

func (p *progressLogger) Error(msg string) {
	if p.active {
		p.spinner.Suspend(func() { p.logger.Error(msg) })
		return
	}
	p.logger.Error(msg)
}
