package metrics

import (
	"time"

	"palette-hq/scout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics tracks calls to the Gemini API.
//
// Metrics:
//   - scout_generation_requests_total{operation,status}
//   - scout_generation_duration_seconds{operation}
//   - scout_generation_retries_total{operation}
type GenerationMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

// NewGenerationMetrics creates and registers generation metrics.
func NewGenerationMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	m := &GenerationMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_requests_total",
				Help:      "Total number of generation calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of generation calls in seconds, retries included",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_retries_total",
				Help:      "Total number of retried generation attempts",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(m.requests, m.duration, m.retries)
	return m
}

// Record records a completed generation call.
func (m *GenerationMetrics) Record(operation, status string, duration time.Duration) {
	m.requests.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}
