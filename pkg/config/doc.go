// Package config provides configuration management for scout.
//
// Configuration is read from a YAML file, decoded on top of the defaults,
// overridden from the environment and validated as a whole.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("scout.yaml")                 // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("scout.yaml") // file + env
//	cfg, err := config.LoadConfigOrDefault("scout.yaml")        // file optional
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SCOUT_SECTION_FIELD:
//
//   - SCOUT_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SCOUT_GEMINI_API_KEY overrides gemini.api_key (GEMINI_API_KEY is also read)
//   - SCOUT_HISTORY_BACKEND overrides history.backend
//   - SCOUT_MONITOR_KAFKA_BROKERS overrides monitor.kafka.brokers (comma separated)
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton
//
// The CLI stores the loaded configuration with Initialize and reads it with
// GetConfig. Library packages take explicit values instead.
//
// # Validation
//
// Validate collects every problem into a ValidationError:
//
//	configuration validation failed with 2 errors:
//	  - history.backend: invalid value "mysql": must be one of sqlite, postgres, memory, none
//	  - monitor.kafka.brokers: at least one broker is required for kafka
//
// # Example Configuration
//
//	server:
//	  listen_address: "127.0.0.1:8420"
//
//	classifier:
//	  rules_path: "rules.yaml"
//	  watch: true
//
//	history:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/scout.db"
//	  retention:
//	    days: 30
//
//	monitor:
//	  source: "kafka"
//	  sink: "kafka"
//	  kafka:
//	    brokers: ["localhost:9092"]
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
