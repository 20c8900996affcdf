package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "recap"

// Search attempt outcomes
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Chat stream statuses
const (
	StreamSuccess = "success"
	StreamError   = "error"
)

// Metrics collects pipeline counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// SearchAttemptsTotal counts provider calls made while resolving cases.
	// Labels: stage (specific, broad, derived, ...), outcome (hit, empty, error)
	SearchAttemptsTotal *prometheus.CounterVec

	// ResolvedCases observes how many records a resolution produced
	ResolvedCases prometheus.Histogram

	// ChatStreamsTotal counts completed chat streams by status
	ChatStreamsTotal *prometheus.CounterVec

	// StreamedChunksTotal counts completion chunks relayed to clients by provider
	StreamedChunksTotal *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "search",
				Name:      "attempts_total",
				Help:      "Case search attempts made during query escalation.",
			},
			[]string{"stage", "outcome"},
		),
		ResolvedCases: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "search",
				Name:      "resolved_cases",
				Help:      "Number of case records returned by query escalation.",
				Buckets:   []float64{0, 1, 2, 3, 4, 5, 10},
			},
		),
		ChatStreamsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "chat",
				Name:      "streams_total",
				Help:      "Chat completion streams by final status.",
			},
			[]string{"status"},
		),
		StreamedChunksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "chat",
				Name:      "streamed_chunks_total",
				Help:      "Completion chunks relayed to clients.",
			},
			[]string{"provider"},
		),
	}
}

// RecordSearchAttempt records one escalation attempt
func (m *Metrics) RecordSearchAttempt(stage, outcome string) {
	if m == nil {
		return
	}
	m.SearchAttemptsTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordResolved records the size of a resolved case list
func (m *Metrics) RecordResolved(count int) {
	if m == nil {
		return
	}
	m.ResolvedCases.Observe(float64(count))
}

// RecordStream records the end of a chat stream
func (m *Metrics) RecordStream(success bool) {
	if m == nil {
		return
	}
	status := StreamSuccess
	if !success {
		status = StreamError
	}
	m.ChatStreamsTotal.WithLabelValues(status).Inc()
}

// RecordChunk records one relayed completion chunk
func (m *Metrics) RecordChunk(provider string) {
	if m == nil {
		return
	}
	m.StreamedChunksTotal.WithLabelValues(provider).Inc()
}
