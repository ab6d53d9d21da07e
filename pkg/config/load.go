package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default, zero values are defaulted and the
// result is validated. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SCOUT_SECTION_FIELD (e.g., SCOUT_SERVER_LISTEN_ADDRESS).
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigOrDefault behaves like LoadConfigWithEnvOverrides, except that an
// empty path or a missing file yields the defaults plus environment overrides.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparseable numeric and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	envString("SCOUT_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SCOUT_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SCOUT_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SCOUT_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Gemini overrides. The bare GEMINI_API_KEY is honoured as well since
	// that is what Google's own tooling reads.
	envString("GEMINI_API_KEY", &cfg.Gemini.APIKey)
	envString("SCOUT_GEMINI_API_KEY", &cfg.Gemini.APIKey)
	envDuration("SCOUT_GEMINI_TIMEOUT", &cfg.Gemini.Timeout)
	envInt("SCOUT_GEMINI_MAX_RETRIES", &cfg.Gemini.MaxRetries)
	envDuration("SCOUT_GEMINI_INITIAL_BACKOFF", &cfg.Gemini.InitialBackoff)

	// Classifier overrides
	envString("SCOUT_CLASSIFIER_RULES_PATH", &cfg.Classifier.RulesPath)
	envBool("SCOUT_CLASSIFIER_WATCH", &cfg.Classifier.Watch)
	envFloat("SCOUT_CLASSIFIER_WEIGHTS_THRESHOLD", &cfg.Classifier.Weights.Threshold)

	// Generator overrides
	envString("SCOUT_GENERATOR_BRIEF_MODEL", &cfg.Generator.Brief.Model)
	envString("SCOUT_GENERATOR_MOCKUP_MODEL", &cfg.Generator.Mockup.Model)
	envString("SCOUT_GENERATOR_IMAGE_MODEL", &cfg.Generator.Image.Model)
	envDuration("SCOUT_GENERATOR_BATCH_DELAY", &cfg.Generator.BatchDelay)

	// History overrides
	envString("SCOUT_HISTORY_BACKEND", &cfg.History.Backend)
	envString("SCOUT_HISTORY_SQLITE_PATH", &cfg.History.SQLite.Path)
	envString("SCOUT_HISTORY_SQLITE_DRIVER", &cfg.History.SQLite.Driver)
	envString("SCOUT_HISTORY_POSTGRES_HOST", &cfg.History.Postgres.Host)
	envInt("SCOUT_HISTORY_POSTGRES_PORT", &cfg.History.Postgres.Port)
	envString("SCOUT_HISTORY_POSTGRES_DATABASE", &cfg.History.Postgres.Database)
	envString("SCOUT_HISTORY_POSTGRES_USER", &cfg.History.Postgres.User)
	envString("SCOUT_HISTORY_POSTGRES_PASSWORD", &cfg.History.Postgres.Password)
	envString("SCOUT_HISTORY_POSTGRES_SSL_MODE", &cfg.History.Postgres.SSLMode)
	envInt("SCOUT_HISTORY_RETENTION_DAYS", &cfg.History.Retention.Days)
	envString("SCOUT_HISTORY_RETENTION_SCHEDULE", &cfg.History.Retention.Schedule)

	// Monitor overrides
	envString("SCOUT_MONITOR_SOURCE", &cfg.Monitor.Source)
	envString("SCOUT_MONITOR_FILE_PATH", &cfg.Monitor.FilePath)
	envString("SCOUT_MONITOR_FORMAT", &cfg.Monitor.Format)
	envString("SCOUT_MONITOR_SINK", &cfg.Monitor.Sink)
	envBool("SCOUT_MONITOR_AUTO_GENERATE", &cfg.Monitor.AutoGenerate)
	if val := os.Getenv("SCOUT_MONITOR_KAFKA_BROKERS"); val != "" {
		cfg.Monitor.Kafka.Brokers = splitList(val)
	}
	envString("SCOUT_MONITOR_KAFKA_TOPIC", &cfg.Monitor.Kafka.Topic)
	envString("SCOUT_MONITOR_KAFKA_GROUP_ID", &cfg.Monitor.Kafka.GroupID)
	envString("SCOUT_MONITOR_KAFKA_RESULT_TOPIC", &cfg.Monitor.Kafka.ResultTopic)

	// Telemetry overrides
	envString("SCOUT_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("SCOUT_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("SCOUT_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("SCOUT_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
