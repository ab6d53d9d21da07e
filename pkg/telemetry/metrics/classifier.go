package metrics

import (
	"palette-hq/scout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ClassifierMetrics tracks classifier output.
//
// Metrics:
//   - scout_analyses_total{category,design_request}
//   - scout_confidence: confidence score histogram
//   - scout_urgency_total{level}
//   - scout_budget_total{level}
type ClassifierMetrics struct {
	analyses   *prometheus.CounterVec
	confidence prometheus.Histogram
	urgency    *prometheus.CounterVec
	budget     *prometheus.CounterVec
}

// NewClassifierMetrics creates and registers classifier metrics.
func NewClassifierMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ClassifierMetrics {
	m := &ClassifierMetrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "analyses_total",
				Help:      "Total number of analyzed messages",
			},
			[]string{"category", "design_request"},
		),
		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "confidence",
				Help:      "Distribution of design request confidence scores",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		urgency: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "urgency_total",
				Help:      "Analyzed messages by urgency level",
			},
			[]string{"level"},
		),
		budget: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "budget_total",
				Help:      "Analyzed messages by budget level",
			},
			[]string{"level"},
		),
	}

	registry.MustRegister(m.analyses, m.confidence, m.urgency, m.budget)
	return m
}

// Record records one analysis.
func (m *ClassifierMetrics) Record(category, designRequest, urgency, budget string, confidence float64) {
	m.analyses.WithLabelValues(category, designRequest).Inc()
	m.confidence.Observe(confidence)
	m.urgency.WithLabelValues(urgency).Inc()
	m.budget.WithLabelValues(budget).Inc()
}
