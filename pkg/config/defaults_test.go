package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Gemini.MaxRetries != DefaultGeminiMaxRetries {
		t.Errorf("expected max retries %d, got %d", DefaultGeminiMaxRetries, cfg.Gemini.MaxRetries)
	}
	if cfg.Generator.Brief.Model != DefaultBriefModel {
		t.Errorf("expected brief model %q, got %q", DefaultBriefModel, cfg.Generator.Brief.Model)
	}
	if cfg.Generator.Mockup.Temperature != DefaultMockupTemperature {
		t.Errorf("expected mockup temperature %v, got %v", DefaultMockupTemperature, cfg.Generator.Mockup.Temperature)
	}
	if cfg.Generator.Brief.MaxOutputTokens != 2048 || cfg.Generator.Image.MaxOutputTokens != 1024 {
		t.Errorf("unexpected token limits: brief=%d image=%d",
			cfg.Generator.Brief.MaxOutputTokens, cfg.Generator.Image.MaxOutputTokens)
	}
	if !cfg.History.SQLite.WALMode {
		t.Error("expected WAL mode enabled by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		t.Error("expected secret redaction enabled by default")
	}
	if cfg.Classifier.Weights.Threshold != DefaultWeightThreshold {
		t.Errorf("expected threshold %v, got %v", DefaultWeightThreshold, cfg.Classifier.Weights.Threshold)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should be valid: %v", err)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{ListenAddress: "0.0.0.0:9000", ReadTimeout: 5 * time.Second},
		Generator: GeneratorConfig{
			Brief: GenerationConfig{Model: "custom", Temperature: 0.2},
		},
		History: HistoryConfig{Backend: "memory"},
	}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout overwritten: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Generator.Brief.Model != "custom" || cfg.Generator.Brief.Temperature != 0.2 {
		t.Errorf("brief generation overwritten: %+v", cfg.Generator.Brief)
	}
	if cfg.Generator.Brief.TopK != DefaultTopK {
		t.Errorf("expected default top_k, got %v", cfg.Generator.Brief.TopK)
	}
	if cfg.History.Backend != "memory" {
		t.Errorf("backend overwritten: %q", cfg.History.Backend)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Metrics.DurationBuckets[0] = 99

	if DefaultDurationBuckets[0] == 99 {
		t.Error("default buckets mutated through config")
	}
}
