package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records shipping quote resolutions.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	resolved *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipping_quote_duration_seconds",
		Help:    "Duration of shipping quote resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"rule"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_resolved",
		Help: "Resolved shipping quotes by applied rule.",
	}, []string{"rule"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_failed",
		Help: "Failed shipping quote resolutions by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, resolved, failed)
	return &QuoteMetrics{
		duration: duration,
		resolved: resolved,
		failed:   failed,
	}
}

// ObserveResolved records a successful resolution and its duration.
func (q *QuoteMetrics) ObserveResolved(rule string, duration time.Duration) {
	if q == nil || q.resolved == nil {
		return
	}
	label := normalizeLabel(rule)
	q.resolved.WithLabelValues(label).Inc()
	q.duration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncFailed increments the failure counter for the given error code.
func (q *QuoteMetrics) IncFailed(code string) {
	if q == nil || q.failed == nil {
		return
	}
	q.failed.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
