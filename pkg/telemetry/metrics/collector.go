package metrics

import (
	"strconv"
	"sync"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherLabel replaces label values once the cardinality limit is reached.
const OtherLabel = "other"

// Collector owns every Prometheus metric scout exports.
//
// A nil *Collector, or one built from a disabled config, accepts every call
// and records nothing, so components can take a collector unconditionally.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	classifier *ClassifierMetrics
	generation *GenerationMetrics
	pipeline   *PipelineMetrics

	categories *CardinalityLimiter
}

// NewCollector creates a collector registering into registry. A nil registry
// gets a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNS
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets
	}

	return &Collector{
		enabled:    cfg.Enabled,
		registry:   registry,
		classifier: NewClassifierMetrics(cfg, registry),
		generation: NewGenerationMetrics(cfg, registry),
		pipeline:   NewPipelineMetrics(cfg, registry),
		categories: NewCardinalityLimiter(100),
	}
}

func (c *Collector) active() bool {
	return c != nil && c.enabled
}

// RecordAnalysis records one classifier result.
func (c *Collector) RecordAnalysis(a classifier.MessageAnalysis) {
	if !c.active() {
		return
	}

	category := a.CategoryName()
	if !c.categories.Allow(category) {
		category = OtherLabel
	}
	c.classifier.Record(category, strconv.FormatBool(a.IsDesignRequest), string(a.Urgency.Level), string(a.Budget.Level), a.Confidence)
}

// RecordGeneration records one generation call. status is "success" or an
// error kind such as "rate_limit".
func (c *Collector) RecordGeneration(operation, status string, duration time.Duration) {
	if !c.active() {
		return
	}
	c.generation.Record(operation, status, duration)
}

// RecordRetry records a retried generation attempt.
func (c *Collector) RecordRetry(operation string) {
	if !c.active() {
		return
	}
	c.generation.retries.WithLabelValues(operation).Inc()
}

// RecordMessage records a monitored chat message. outcome is one of
// "request", "ignored", "duplicate", "empty" or "error".
func (c *Collector) RecordMessage(source, outcome string) {
	if !c.active() {
		return
	}
	c.pipeline.messages.WithLabelValues(source, outcome).Inc()
}

// RecordPruned records history records removed by retention.
func (c *Collector) RecordPruned(n int64) {
	if !c.active() || n <= 0 {
		return
	}
	c.pipeline.pruned.Add(float64(n))
}

// RecordDropped records a history record dropped because the recorder
// buffer was full.
func (c *Collector) RecordDropped() {
	if !c.active() {
		return
	}
	c.pipeline.dropped.Inc()
}

// RecordRulesReload records a rule file reload attempt.
func (c *Collector) RecordRulesReload(success bool) {
	if !c.active() {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	c.pipeline.reloads.WithLabelValues(status).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// CardinalityLimiter bounds the number of distinct values a label may take.
type CardinalityLimiter struct {
	max     int
	mu      sync.RWMutex
	current map[string]struct{}
}

// NewCardinalityLimiter creates a limiter allowing max distinct values.
func NewCardinalityLimiter(max int) *CardinalityLimiter {
	return &CardinalityLimiter{max: max, current: make(map[string]struct{})}
}

// Allow reports whether value may be used as a label: it is already known,
// or there is still room for it.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, ok := cl.current[value]
	cl.mu.RUnlock()
	if ok {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, ok := cl.current[value]; ok {
		return true
	}
	if len(cl.current) >= cl.max {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of distinct values seen.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
