package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration. All problems are collected
// and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var v validator

	v.server(&cfg.Server)
	v.gemini(&cfg.Gemini)
	v.classifier(&cfg.Classifier)
	v.generator(&cfg.Generator)
	v.history(&cfg.History)
	v.monitor(&cfg.Monitor)
	v.telemetry(&cfg.Telemetry)

	if len(v.errs) > 0 {
		return ValidationError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	errs []FieldError
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.add(field, "invalid value %q: must be one of %s", value, strings.Join(allowed, ", "))
}

func (v *validator) server(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		v.add("server.listen_address", "listen address is required")
	}
	if cfg.ReadTimeout < 0 {
		v.add("server.read_timeout", "read timeout must be positive")
	}
	if cfg.WriteTimeout < 0 {
		v.add("server.write_timeout", "write timeout must be positive")
	}
	if cfg.ShutdownTimeout < 0 {
		v.add("server.shutdown_timeout", "shutdown timeout must be positive")
	}
	if cfg.MaxBodyBytes < 0 {
		v.add("server.max_body_bytes", "max body bytes must be non-negative")
	}
}

func (v *validator) gemini(cfg *GeminiConfig) {
	if cfg.Timeout < 0 {
		v.add("gemini.timeout", "timeout must be positive")
	}
	if cfg.MaxRetries < 1 || cfg.MaxRetries > 10 {
		v.add("gemini.max_retries", "max retries must be between 1 and 10")
	}
	if cfg.InitialBackoff < 0 {
		v.add("gemini.initial_backoff", "initial backoff must be positive")
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		v.add("gemini.max_backoff", "max backoff must not be less than initial backoff")
	}
}

func (v *validator) classifier(cfg *ClassifierConfig) {
	if cfg.Watch && cfg.RulesPath == "" {
		v.add("classifier.watch", "watch requires rules_path")
	}
	if cfg.WatchDebounce < 0 {
		v.add("classifier.watch_debounce", "debounce must be positive")
	}

	w := cfg.Weights
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"category", w.Category},
		{"per_requirement", w.PerRequirement},
		{"requirement_cap", w.RequirementCap},
		{"urgency", w.Urgency},
		{"budget", w.Budget},
	} {
		if f.value < 0 {
			v.add("classifier.weights."+f.name, "weight must not be negative")
		}
	}
	if w.CategoryDivisor <= 0 {
		v.add("classifier.weights.category_divisor", "divisor must be positive")
	}
	if w.Threshold < 0 || w.Threshold > 1 {
		v.add("classifier.weights.threshold", "threshold must be between 0 and 1")
	}
}

func (v *validator) generator(cfg *GeneratorConfig) {
	for _, op := range []struct {
		name string
		g    GenerationConfig
	}{
		{"brief", cfg.Brief},
		{"mockup", cfg.Mockup},
		{"image", cfg.Image},
	} {
		prefix, g := "generator."+op.name, op.g
		if g.Model == "" {
			v.add(prefix+".model", "model is required")
		}
		if g.Temperature < 0 || g.Temperature > 2 {
			v.add(prefix+".temperature", "temperature must be between 0 and 2")
		}
		if g.TopP < 0 || g.TopP > 1 {
			v.add(prefix+".top_p", "top_p must be between 0 and 1")
		}
		if g.TopK < 0 {
			v.add(prefix+".top_k", "top_k must be non-negative")
		}
		if g.MaxOutputTokens < 1 {
			v.add(prefix+".max_output_tokens", "max output tokens must be positive")
		}
	}
	if cfg.BatchDelay < 0 {
		v.add("generator.batch_delay", "batch delay must be non-negative")
	}
}

func (v *validator) history(cfg *HistoryConfig) {
	v.oneOf("history.backend", cfg.Backend, "sqlite", "postgres", "memory", "none")

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			v.add("history.sqlite.path", "SQLite path is required when backend is 'sqlite'")
		}
		v.oneOf("history.sqlite.driver", cfg.SQLite.Driver, "sqlite", "sqlite3")
		if cfg.SQLite.MaxOpenConns < 1 {
			v.add("history.sqlite.max_open_conns", "max open connections must be positive")
		}
	case "postgres":
		if cfg.Postgres.Host == "" {
			v.add("history.postgres.host", "PostgreSQL host is required when backend is 'postgres'")
		}
		if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
			v.add("history.postgres.port", "PostgreSQL port must be between 1 and 65535")
		}
		if cfg.Postgres.Database == "" {
			v.add("history.postgres.database", "PostgreSQL database is required when backend is 'postgres'")
		}
		if cfg.Postgres.User == "" {
			v.add("history.postgres.user", "PostgreSQL user is required when backend is 'postgres'")
		}
		v.oneOf("history.postgres.ssl_mode", cfg.Postgres.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
	}

	if cfg.Recorder.BufferSize < 1 {
		v.add("history.recorder.buffer_size", "buffer size must be positive")
	}
	if cfg.Retention.Days < 0 {
		v.add("history.retention.days", "retention days must be non-negative")
	}
	if cfg.Retention.MaxRecords < 0 {
		v.add("history.retention.max_records", "max records must be non-negative")
	}
	if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
		v.add("history.retention.schedule", "invalid cron expression %q: %v", cfg.Retention.Schedule, err)
	}
	if cfg.Query.DefaultLimit < 1 {
		v.add("history.query.default_limit", "default limit must be positive")
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		v.add("history.query.max_limit", "max limit must not be less than default limit")
	}
}

func (v *validator) monitor(cfg *MonitorConfig) {
	v.oneOf("monitor.source", cfg.Source, "stdin", "file", "kafka")
	v.oneOf("monitor.format", cfg.Format, "jsonl", "text")
	v.oneOf("monitor.sink", cfg.Sink, "stdout", "kafka", "none")

	if cfg.Source == "file" && cfg.FilePath == "" {
		v.add("monitor.file_path", "file path is required when source is 'file'")
	}
	if (cfg.Source == "kafka" || cfg.Sink == "kafka") && len(cfg.Kafka.Brokers) == 0 {
		v.add("monitor.kafka.brokers", "at least one broker is required for kafka")
	}
	if cfg.SeenCapacity < 1 {
		v.add("monitor.seen_capacity", "seen capacity must be positive")
	}
}

func (v *validator) telemetry(cfg *TelemetryConfig) {
	v.oneOf("telemetry.logging.level", cfg.Logging.Level, "debug", "info", "warn", "error")
	v.oneOf("telemetry.logging.format", cfg.Logging.Format, "json", "text", "console")

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		v.add("telemetry.metrics.path", "metrics path must start with '/'")
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			v.add("telemetry.metrics.duration_buckets", "buckets must be strictly increasing")
			break
		}
	}
}
