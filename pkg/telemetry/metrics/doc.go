// Package metrics provides Prometheus metrics for scout.
//
// # Metrics
//
//   - Classifier: analyses by category and request flag, confidence
//     histogram, urgency and budget levels
//   - Generation: Gemini calls by operation and status, latency, retries
//   - Pipeline: monitored messages by source and outcome, history pruning
//     and drops, rule reloads
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordAnalysis(analysis)
//	collector.RecordGeneration("brief", "success", time.Since(start))
//	mux.Handle("/metrics", collector.Handler())
//
// Every collector owns its registry, so tests can build as many as they like.
// Category labels come from user-defined rules and are capped by a
// CardinalityLimiter; overflow is reported as "other".
package metrics
