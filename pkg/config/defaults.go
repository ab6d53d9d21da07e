package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8420"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = int64(10 << 20)

	// Gemini defaults
	DefaultGeminiTimeout        = 60 * time.Second
	DefaultGeminiMaxRetries     = 3
	DefaultGeminiInitialBackoff = time.Second
	DefaultGeminiMaxBackoff     = 30 * time.Second

	// Classifier defaults
	DefaultWatchDebounce = 500 * time.Millisecond

	// Generator defaults
	DefaultBriefModel        = "gemini-2.0-flash-exp"
	DefaultMockupModel       = "gemini-2.5-flash-image"
	DefaultImageModel        = "gemini-2.0-flash-exp"
	DefaultBriefTemperature  = float32(0.7)
	DefaultMockupTemperature = float32(0.8)
	DefaultImageTemperature  = float32(0.6)
	DefaultTopK              = float32(40)
	DefaultTopP              = float32(0.95)
	DefaultBriefMaxTokens    = int32(2048)
	DefaultMockupMaxTokens   = int32(1024)
	DefaultImageMaxTokens    = int32(1024)
	DefaultBatchDelay        = time.Second

	// History defaults
	DefaultHistoryBackend       = "sqlite"
	DefaultSQLitePath           = "data/scout.db"
	DefaultSQLiteDriver         = "sqlite"
	DefaultSQLiteMaxOpenConns   = 10
	DefaultSQLiteWALMode        = true
	DefaultSQLiteBusyTimeout    = 5 * time.Second
	DefaultPostgresPort         = 5432
	DefaultPostgresSSLMode      = "prefer"
	DefaultPostgresMaxConns     = int32(10)
	DefaultRecorderBufferSize   = 1000
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRetentionDays        = 30
	DefaultRetentionSchedule    = "0 3 * * *"
	DefaultQueryDefaultLimit    = 50
	DefaultQueryMaxLimit        = 1000

	// Monitor defaults
	DefaultMonitorSource       = "stdin"
	DefaultMonitorFormat       = "jsonl"
	DefaultMonitorChannel      = "default"
	DefaultMonitorSink         = "stdout"
	DefaultMonitorSeenCapacity = 10000
	DefaultKafkaTopic          = "chat.messages"
	DefaultKafkaGroupID        = "scout"
	DefaultKafkaResultTopic    = "scout.results"
	DefaultKafkaMaxWait        = time.Second

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "text"
	DefaultRedactSecrets  = true
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
	DefaultMetricsNS      = "scout"
)

// Default confidence weights.
const (
	DefaultWeightCategory        = 0.4
	DefaultWeightCategoryDivisor = 3.0
	DefaultWeightPerRequirement  = 0.05
	DefaultWeightRequirementCap  = 0.3
	DefaultWeightUrgency         = 0.2
	DefaultWeightBudget          = 0.1
	DefaultWeightThreshold       = 0.3
)

// DefaultDurationBuckets are the generation latency histogram buckets.
var DefaultDurationBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60}

// Default returns a configuration with every default applied.
//
// Files are decoded on top of this value, so boolean fields that default to
// true stay true unless the file sets them explicitly.
func Default() *Config {
	cfg := &Config{
		History: HistoryConfig{
			SQLite: SQLiteConfig{WALMode: DefaultSQLiteWALMode},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultRedactSecrets},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	cfg.Classifier.Weights = DefaultWeights()
	ApplyDefaults(cfg)
	return cfg
}

// DefaultWeights returns the built-in confidence weights. Weights are only
// defaulted here: a zero in the file switches that term off.
func DefaultWeights() WeightsConfig {
	return WeightsConfig{
		Category:        DefaultWeightCategory,
		CategoryDivisor: DefaultWeightCategoryDivisor,
		PerRequirement:  DefaultWeightPerRequirement,
		RequirementCap:  DefaultWeightRequirementCap,
		Urgency:         DefaultWeightUrgency,
		Budget:          DefaultWeightBudget,
		Threshold:       DefaultWeightThreshold,
	}
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Boolean fields are left alone; see Default.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Gemini defaults
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = DefaultGeminiTimeout
	}
	if cfg.Gemini.MaxRetries == 0 {
		cfg.Gemini.MaxRetries = DefaultGeminiMaxRetries
	}
	if cfg.Gemini.InitialBackoff == 0 {
		cfg.Gemini.InitialBackoff = DefaultGeminiInitialBackoff
	}
	if cfg.Gemini.MaxBackoff == 0 {
		cfg.Gemini.MaxBackoff = DefaultGeminiMaxBackoff
	}

	// Classifier defaults
	if cfg.Classifier.WatchDebounce == 0 {
		cfg.Classifier.WatchDebounce = DefaultWatchDebounce
	}

	// Generator defaults
	applyGenerationDefaults(&cfg.Generator.Brief, DefaultBriefModel, DefaultBriefTemperature, DefaultBriefMaxTokens)
	applyGenerationDefaults(&cfg.Generator.Mockup, DefaultMockupModel, DefaultMockupTemperature, DefaultMockupMaxTokens)
	applyGenerationDefaults(&cfg.Generator.Image, DefaultImageModel, DefaultImageTemperature, DefaultImageMaxTokens)
	if cfg.Generator.BatchDelay == 0 {
		cfg.Generator.BatchDelay = DefaultBatchDelay
	}

	applyHistoryDefaults(&cfg.History)
	applyMonitorDefaults(&cfg.Monitor)

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
}

func applyGenerationDefaults(g *GenerationConfig, model string, temperature float32, maxTokens int32) {
	if g.Model == "" {
		g.Model = model
	}
	if g.Temperature == 0 {
		g.Temperature = temperature
	}
	if g.TopK == 0 {
		g.TopK = DefaultTopK
	}
	if g.TopP == 0 {
		g.TopP = DefaultTopP
	}
	if g.MaxOutputTokens == 0 {
		g.MaxOutputTokens = maxTokens
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Backend == "" {
		h.Backend = DefaultHistoryBackend
	}
	if h.SQLite.Path == "" {
		h.SQLite.Path = DefaultSQLitePath
	}
	if h.SQLite.Driver == "" {
		h.SQLite.Driver = DefaultSQLiteDriver
	}
	if h.SQLite.MaxOpenConns == 0 {
		h.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if h.SQLite.BusyTimeout == 0 {
		h.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if h.Postgres.Port == 0 {
		h.Postgres.Port = DefaultPostgresPort
	}
	if h.Postgres.SSLMode == "" {
		h.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if h.Postgres.MaxConns == 0 {
		h.Postgres.MaxConns = DefaultPostgresMaxConns
	}
	if h.Recorder.BufferSize == 0 {
		h.Recorder.BufferSize = DefaultRecorderBufferSize
	}
	if h.Recorder.WriteTimeout == 0 {
		h.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if h.Retention.Days == 0 {
		h.Retention.Days = DefaultRetentionDays
	}
	if h.Retention.Schedule == "" {
		h.Retention.Schedule = DefaultRetentionSchedule
	}
	if h.Query.DefaultLimit == 0 {
		h.Query.DefaultLimit = DefaultQueryDefaultLimit
	}
	if h.Query.MaxLimit == 0 {
		h.Query.MaxLimit = DefaultQueryMaxLimit
	}
}

func applyMonitorDefaults(m *MonitorConfig) {
	if m.Source == "" {
		m.Source = DefaultMonitorSource
	}
	if m.Format == "" {
		m.Format = DefaultMonitorFormat
	}
	if m.Channel == "" {
		m.Channel = DefaultMonitorChannel
	}
	if m.Sink == "" {
		m.Sink = DefaultMonitorSink
	}
	if m.SeenCapacity == 0 {
		m.SeenCapacity = DefaultMonitorSeenCapacity
	}
	if m.Kafka.Topic == "" {
		m.Kafka.Topic = DefaultKafkaTopic
	}
	if m.Kafka.GroupID == "" {
		m.Kafka.GroupID = DefaultKafkaGroupID
	}
	if m.Kafka.ResultTopic == "" {
		m.Kafka.ResultTopic = DefaultKafkaResultTopic
	}
	if m.Kafka.MaxWait == 0 {
		m.Kafka.MaxWait = DefaultKafkaMaxWait
	}
}
