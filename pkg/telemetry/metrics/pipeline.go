package metrics

import (
	"palette-hq/scout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks the monitor, history and rule reloads.
//
// Metrics:
//   - scout_messages_processed_total{source,outcome}
//   - scout_history_records_pruned_total
//   - scout_history_records_dropped_total
//   - scout_rules_reloads_total{status}
type PipelineMetrics struct {
	messages *prometheus.CounterVec
	pruned   prometheus.Counter
	dropped  prometheus.Counter
	reloads  *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics.
func NewPipelineMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	m := &PipelineMetrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "messages_processed_total",
				Help:      "Chat messages processed by the monitor",
			},
			[]string{"source", "outcome"},
		),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "history_records_pruned_total",
			Help:      "History records removed by retention",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "history_records_dropped_total",
			Help:      "History records dropped because the recorder buffer was full",
		}),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rules_reloads_total",
				Help:      "Classifier rule reloads by status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(m.messages, m.pruned, m.dropped, m.reloads)
	return m
}
