// Package observability lets the binary attach metrics to the analysis core
// without the core importing a metrics backend.
//
// Three hook sets exist, each with a no-op default:
//
//   - [PipelineHooks]: sessions, processors and reporters run by the engine
//   - [ManifestCacheHooks]: per-run packument cache hits and misses
//   - [HTTPHooks]: registry requests made by the HTTP transport
//
// Register hooks once at startup, before the first pipeline run:
//
//	observability.SetPipelineHooks(metrics.Pipeline())
//	observability.SetHTTPHooks(metrics.HTTP())
//
// Library code emits events through the accessors:
//
//	observability.Pipeline().OnProcessorStart(ctx, "npm-graph", "graph")
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the analysis engine.
type PipelineHooks interface {
	OnSessionStart(ctx context.Context, target, requested string)
	OnSessionComplete(ctx context.Context, target, requested string, nodeCount int, duration time.Duration, err error)

	OnProcessorStart(ctx context.Context, processor, phase string)
	OnProcessorComplete(ctx context.Context, processor, phase string, duration time.Duration, err error)

	OnReport(ctx context.Context, reporter string, sessions int, duration time.Duration, err error)
}

// ManifestCacheHooks receives events from the per-run packument cache.
type ManifestCacheHooks interface {
	OnCacheHit(ctx context.Context, pkg string)
	OnCacheMiss(ctx context.Context, pkg string)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a request that produced no response (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSessionStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnSessionComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnProcessorStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnProcessorComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnReport(context.Context, string, int, time.Duration, error) {}

// NoopManifestCacheHooks is a no-op implementation of ManifestCacheHooks.
type NoopManifestCacheHooks struct{}

func (NoopManifestCacheHooks) OnCacheHit(context.Context, string)  {}
func (NoopManifestCacheHooks) OnCacheMiss(context.Context, string) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	pipelineHooks PipelineHooks      = NoopPipelineHooks{}
	cacheHooks    ManifestCacheHooks = NoopManifestCacheHooks{}
	httpHooks     HTTPHooks          = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil argument is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetManifestCacheHooks registers manifest cache hooks. A nil argument is ignored.
func SetManifestCacheHooks(h ManifestCacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. A nil argument is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// ManifestCache returns the registered manifest cache hooks.
func ManifestCache() ManifestCacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopManifestCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
