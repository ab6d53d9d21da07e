// Package telemetry groups Scout's observability packages.
//
// # Components
//
//   - logging: slog construction with secret redaction
//   - metrics: Prometheus collectors for analyses, Gemini calls, history
//     and the monitor
//   - health: concurrent readiness checks served on /health/ready
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordAnalysis(analysis)
//
// Every metrics method is safe on a nil *metrics.Collector, so components
// take one unconditionally and callers pass nil to switch metrics off.
//
// # Redaction
//
// With redact_secrets enabled, log values are masked before they are
// written:
//
//   - Gemini keys: AIzaSy... → AIza***
//   - Bearer tokens and ?key= query parameters
//   - Emails: user@example.com → ***@***
//   - Attributes named like password, token or api_key
package telemetry
