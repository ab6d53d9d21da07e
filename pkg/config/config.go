package config

import "time"

// Config is the root configuration structure for scout.
// It contains every configuration section for the HTTP API, the Gemini relay,
// the classifier, history storage, the chat monitor and telemetry.
type Config struct {
	// Server contains HTTP API server configuration.
	Server ServerConfig `yaml:"server"`

	// Gemini contains connection settings for the Gemini API.
	Gemini GeminiConfig `yaml:"gemini"`

	// Classifier contains rule file and confidence weight settings.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Generator contains per-operation generation parameters.
	Generator GeneratorConfig `yaml:"generator"`

	// History contains analysis history storage configuration.
	History HistoryConfig `yaml:"history"`

	// Monitor contains chat message ingestion configuration.
	Monitor MonitorConfig `yaml:"monitor"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8420"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Generation requests can be slow, so this is larger than ReadTimeout.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request body size, including uploaded images.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// GeminiConfig contains connection settings for the Gemini API.
type GeminiConfig struct {
	// APIKey authenticates requests. Usually supplied through
	// SCOUT_GEMINI_API_KEY or the OS keyring rather than the file.
	APIKey string `yaml:"api_key"`

	// Timeout bounds a single API call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of attempts for retryable failures.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// InitialBackoff is the wait before the first retry; it doubles per attempt.
	// Default: 1s
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	// MaxBackoff caps the wait between retries.
	// Default: 30s
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// ClassifierConfig contains classifier rule and weight settings.
type ClassifierConfig struct {
	// RulesPath is an optional YAML rules file. Empty uses the built-in rules.
	RulesPath string `yaml:"rules_path"`

	// Watch reloads RulesPath when it changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce coalesces bursts of file events.
	// Default: 500ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// Weights are the confidence weights. Fields missing from the file keep
	// the defaults; an explicit zero is kept.
	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig mirrors the classifier confidence weights.
type WeightsConfig struct {
	Category        float64 `yaml:"category"`
	CategoryDivisor float64 `yaml:"category_divisor"`
	PerRequirement  float64 `yaml:"per_requirement"`
	RequirementCap  float64 `yaml:"requirement_cap"`
	Urgency         float64 `yaml:"urgency"`
	Budget          float64 `yaml:"budget"`
	Threshold       float64 `yaml:"threshold"`
}

// GeneratorConfig contains generation parameters per operation.
type GeneratorConfig struct {
	// Brief configures design brief generation.
	Brief GenerationConfig `yaml:"brief"`

	// Mockup configures visual mockup generation.
	Mockup GenerationConfig `yaml:"mockup"`

	// Image configures reference image analysis.
	Image GenerationConfig `yaml:"image"`

	// BatchDelay is the pause between requests in a batch.
	// Default: 1s
	BatchDelay time.Duration `yaml:"batch_delay"`
}

// GenerationConfig holds the sampling parameters of one operation.
type GenerationConfig struct {
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopK            float32 `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// HistoryConfig contains analysis history storage configuration.
type HistoryConfig struct {
	// Backend selects the storage backend.
	// Options: "sqlite", "postgres", "memory", "none"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres contains PostgreSQL-specific configuration.
	Postgres PostgresConfig `yaml:"postgres"`

	// Recorder contains asynchronous recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`

	// Query contains query limits.
	Query QueryConfig `yaml:"query"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/scout.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the connection pool size.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PostgresConfig contains PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// SSLMode is passed through to the connection string.
	// Default: "prefer"
	SSLMode string `yaml:"ssl_mode"`

	// MaxConns is the pool size.
	// Default: 10
	MaxConns int32 `yaml:"max_conns"`
}

// RecorderConfig contains asynchronous recorder configuration.
type RecorderConfig struct {
	// BufferSize is the channel capacity. Records are dropped when full.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// WriteTimeout bounds a single store call.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days deletes records older than this. 0 keeps records forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords keeps at most this many records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a standard cron expression for pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// QueryConfig contains history query limits.
type QueryConfig struct {
	// DefaultLimit applies when a query sets no limit.
	// Default: 50
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit caps any query limit.
	// Default: 1000
	MaxLimit int `yaml:"max_limit"`
}

// MonitorConfig contains chat message ingestion configuration.
type MonitorConfig struct {
	// Source selects where messages come from.
	// Options: "stdin", "file", "kafka"
	// Default: "stdin"
	Source string `yaml:"source"`

	// FilePath is read when Source is "file".
	FilePath string `yaml:"file_path"`

	// Format is the line format of stdin and file sources.
	// Options: "jsonl" (one ChatMessage per line), "text" (one message per line)
	// Default: "jsonl"
	Format string `yaml:"format"`

	// Channel labels messages from text sources.
	// Default: "default"
	Channel string `yaml:"channel"`

	// Sink selects where results go.
	// Options: "stdout", "kafka", "none"
	// Default: "stdout"
	Sink string `yaml:"sink"`

	// OnlyRequests publishes only messages classified as design requests.
	// Default: false
	OnlyRequests bool `yaml:"only_requests"`

	// AutoGenerate requests a design brief for every design request.
	// Default: false
	AutoGenerate bool `yaml:"auto_generate"`

	// SeenCapacity bounds the set of processed message IDs.
	// Default: 10000
	SeenCapacity int `yaml:"seen_capacity"`

	// Kafka contains Kafka source and sink configuration.
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig contains Kafka connection configuration.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`

	// Topic is consumed by the Kafka source.
	// Default: "chat.messages"
	Topic string `yaml:"topic"`

	// GroupID is the consumer group.
	// Default: "scout"
	GroupID string `yaml:"group_id"`

	// ResultTopic receives results from the Kafka sink.
	// Default: "scout.results"
	ResultTopic string `yaml:"result_topic"`

	// MaxWait bounds how long a fetch waits for new data.
	// Default: 1s
	MaxWait time.Duration `yaml:"max_wait"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys, tokens and emails in log values.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "scout"
	Namespace string `yaml:"namespace"`

	// DurationBuckets are histogram buckets for generation latency (seconds).
	// Default: [0.25, 0.5, 1, 2, 5, 10, 30, 60]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}
