package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("test completed")

	assert.Contains(t, buf.String(), "test completed (")
}

func TestProgressLoggerPlain(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLogger(context.Background(), newLogger(&buf, log.InfoLevel), &buf, false)

	p.Start()
	p.Info("resolving dep1@^1.0.0")
	p.Warn("length mismatch")
	p.Error("boom")
	p.Stop()

	out := buf.String()
	assert.Contains(t, out, "INFO resolving dep1@^1.0.0")
	assert.Contains(t, out, "WARN length mismatch")
	assert.Contains(t, out, "ERRO boom")
}

func TestProgressLoggerInteractive(t *testing.T) {
	var logs bytes.Buffer
	var term syncBuffer
	p := newProgressLogger(context.Background(), newLogger(&logs, log.InfoLevel), &term, true)

	p.Start()
	p.Info("resolving dep1@^1.0.0")
	assert.Equal(t, "resolving dep1@^1.0.0", p.spinner.Message())
	assert.Empty(t, logs.String(), "info replaces the spinner text while active")

	p.Warn("length mismatch")
	assert.Contains(t, logs.String(), "WARN length mismatch")

	time.Sleep(200 * time.Millisecond)
	p.Stop()
	assert.Contains(t, term.String(), "resolving dep1@^1.0.0")

	p.Info("after stop")
	assert.Contains(t, logs.String(), "INFO after stop")
}
