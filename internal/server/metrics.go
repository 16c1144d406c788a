package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deplint"

// Metrics implements the observability hook interfaces on top of a
// prometheus registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	sessions        *prometheus.CounterVec
	sessionDuration prometheus.Histogram
	graphNodes      prometheus.Histogram

	processorDuration *prometheus.HistogramVec
	processorErrors   *prometheus.CounterVec

	reports *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec

	registryRequests *prometheus.CounterVec
	registryDuration prometheus.Histogram
	registryErrors   prometheus.Counter

	httpRequests *prometheus.CounterVec
}

// NewMetrics registers all collectors with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Analysis sessions run, by result.",
		}, []string{"result"}),
		sessionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Wall time of one session, both phases.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in completed session graphs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),

		processorDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processor_duration_seconds",
			Help:      "Wall time of one processor invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		processorErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processor_errors_total",
			Help:      "Processor invocations that failed.",
		}, []string{"phase"}),

		reports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reporter invocations, by reporter and result.",
		}, []string{"reporter", "result"}),

		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packument_cache_lookups_total",
			Help:      "Per-run packument cache lookups, by result.",
		}, []string{"result"}),

		registryRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_requests_total",
			Help:      "Registry responses, by status code.",
		}, []string{"code"}),
		registryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_request_duration_seconds",
			Help:      "Registry round-trip time.",
			Buckets:   prometheus.DefBuckets,
		}),
		registryErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_errors_total",
			Help:      "Registry requests that produced no response.",
		}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// PipelineHooks

func (m *Metrics) OnSessionStart(context.Context, string, string) {}

func (m *Metrics) OnSessionComplete(_ context.Context, _, _ string, nodeCount int, d time.Duration, err error) {
	m.sessions.WithLabelValues(result(err)).Inc()
	m.sessionDuration.Observe(d.Seconds())
	if err == nil {
		m.graphNodes.Observe(float64(nodeCount))
	}
}

func (m *Metrics) OnProcessorStart(context.Context, string, string) {}

func (m *Metrics) OnProcessorComplete(_ context.Context, _, phase string, d time.Duration, err error) {
	m.processorDuration.WithLabelValues(phase).Observe(d.Seconds())
	if err != nil {
		m.processorErrors.WithLabelValues(phase).Inc()
	}
}

func (m *Metrics) OnReport(_ context.Context, reporter string, _ int, _ time.Duration, err error) {
	m.reports.WithLabelValues(reporter, result(err)).Inc()
}

// ManifestCacheHooks

func (m *Metrics) OnCacheHit(context.Context, string) {
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) OnCacheMiss(context.Context, string) {
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// HTTPHooks

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, _, _ string, status int, d time.Duration) {
	m.registryRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	m.registryDuration.Observe(d.Seconds())
}

func (m *Metrics) OnError(context.Context, string, string, string, error) {
	m.registryErrors.Inc()
}
