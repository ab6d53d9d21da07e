package config

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// current holds the process-wide configuration.
	current atomic.Pointer[Config]

	// initOnce guards Initialize.
	initOnce sync.Once
)

// Initialize loads configuration from path (see LoadConfigOrDefault) and
// stores it as the process-wide configuration. Only the first call has any
// effect.
func Initialize(path string) error {
	var initErr error
	initOnce.Do(func() {
		cfg, err := LoadConfigOrDefault(path)
		if err != nil {
			initErr = err
			return
		}
		current.Store(cfg)
	})
	return initErr
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize. Safe for concurrent use.
//
// Prefer passing a *Config explicitly; the global exists for the CLI.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig replaces the process-wide configuration. Intended for tests.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ReloadConfig reloads the configuration from path. The previous
// configuration stays in place if loading or validation fails.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	current.Store(cfg)
	return nil
}

// MustGetConfig is like GetConfig but panics when no configuration is set.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}

// resetForTest clears the singleton state.
func resetForTest() {
	current.Store(nil)
	initOnce = sync.Once{}
}
