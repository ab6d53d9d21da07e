package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/telemetry/metrics"
)

// ErrNoRulesFile is returned by Watch when the manager uses built-in rules.
var ErrNoRulesFile = errors.New("no rules file configured")

// Manager holds the active classifier.
type Manager struct {
	path     string
	weights  classifier.Weights
	debounce time.Duration
	logger   *slog.Logger
	metrics  *metrics.Collector

	current  atomic.Pointer[classifier.Classifier]
	version  atomic.Uint64
	loadedAt atomic.Int64

	// reloadMu serializes reloads; readers go through current.
	reloadMu  sync.Mutex
	lastError atomic.Pointer[string]
}

// NewManager loads the rules at path, or the built-in rules when path is
// empty, and returns a manager serving them.
func NewManager(path string, weights classifier.Weights, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		path:     path,
		weights:  weights,
		debounce: config.DefaultWatchDebounce,
		logger:   logger,
	}

	c, err := m.build()
	if err != nil {
		return nil, err
	}
	m.publish(c)

	logger.Info("Rules loaded",
		"path", m.source(),
		"categories", len(c.Rules().Categories),
	)
	return m, nil
}

// NewFromConfig builds a manager from the classifier section of the config.
func NewFromConfig(cfg config.ClassifierConfig, logger *slog.Logger, collector *metrics.Collector) (*Manager, error) {
	m, err := NewManager(cfg.RulesPath, WeightsFromConfig(cfg.Weights), logger)
	if err != nil {
		return nil, err
	}
	if cfg.WatchDebounce > 0 {
		m.debounce = cfg.WatchDebounce
	}
	m.metrics = collector
	return m, nil
}

// WeightsFromConfig converts configured weights. Zero fields are kept.
func WeightsFromConfig(w config.WeightsConfig) classifier.Weights {
	return classifier.Weights{
		Category:        w.Category,
		CategoryDivisor: w.CategoryDivisor,
		PerRequirement:  w.PerRequirement,
		RequirementCap:  w.RequirementCap,
		Urgency:         w.Urgency,
		Budget:          w.Budget,
		Threshold:       w.Threshold,
	}
}

// Classifier returns the active classifier.
func (m *Manager) Classifier() *classifier.Classifier {
	return m.current.Load()
}

// Analyze classifies text with the active rules.
func (m *Manager) Analyze(text string) classifier.MessageAnalysis {
	return m.current.Load().Analyze(text)
}

// Path returns the rules file path, empty for built-in rules.
func (m *Manager) Path() string {
	return m.path
}

// Status describes the loaded rules.
type Status struct {
	Source    string    `json:"source"`
	Version   uint64    `json:"version"`
	LoadedAt  time.Time `json:"loaded_at"`
	LastError string    `json:"last_error,omitempty"`
}

// Status returns the current load state.
func (m *Manager) Status() Status {
	s := Status{
		Source:   m.source(),
		Version:  m.version.Load(),
		LoadedAt: time.Unix(0, m.loadedAt.Load()).UTC(),
	}
	if e := m.lastError.Load(); e != nil {
		s.LastError = *e
	}
	return s
}

// Reload re-reads the rules file and swaps in the new classifier. On any
// error the previous classifier stays active.
func (m *Manager) Reload() error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	start := time.Now()
	c, err := m.build()
	if err != nil {
		msg := err.Error()
		m.lastError.Store(&msg)
		m.metrics.RecordRulesReload(false)
		m.logger.Error("Failed to reload rules, keeping previous rules",
			"path", m.source(),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	m.publish(c)
	m.lastError.Store(nil)
	m.metrics.RecordRulesReload(true)
	m.logger.Info("Rules reloaded",
		"path", m.source(),
		"version", m.version.Load(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Watch reloads the rules whenever the file changes. It blocks until ctx is
// cancelled.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		return ErrNoRulesFile
	}

	fw, err := NewFileWatcher(m.path, m.debounce, m.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	return fw.Watch(ctx, m.Reload)
}

func (m *Manager) build() (*classifier.Classifier, error) {
	rules := classifier.DefaultRules()
	if m.path != "" {
		loaded, err := classifier.LoadRules(m.path)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	c, err := classifier.New(rules, m.weights)
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return c, nil
}

func (m *Manager) publish(c *classifier.Classifier) {
	m.current.Store(c)
	m.version.Add(1)
	m.loadedAt.Store(time.Now().UnixNano())
}

func (m *Manager) source() string {
	if m.path == "" {
		return "builtin"
	}
	return m.path
}
