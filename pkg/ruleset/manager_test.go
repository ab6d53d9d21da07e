package ruleset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

const mascotRules = `
categories:
  - name: mascot
    keywords: [mascot, character]
    complexity: high
`

const badgeRules = `
categories:
  - name: badge
    keywords: [badge]
    complexity: low
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRules(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}
}

func TestNewManager_BuiltinRules(t *testing.T) {
	m, err := NewManager("", classifier.DefaultWeights(), quietLogger())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Analyze("I need a logo for my bakery")
	if a.CategoryName() != "logo" {
		t.Errorf("category = %q, want logo", a.CategoryName())
	}

	s := m.Status()
	if s.Source != "builtin" || s.Version != 1 {
		t.Errorf("Status() = %+v, want builtin version 1", s)
	}
	if !errors.Is(m.Watch(context.Background()), ErrNoRulesFile) {
		t.Error("Watch() without a file should return ErrNoRulesFile")
	}
}

func TestNewManager_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewManager(filepath.Join(dir, "missing.yaml"), classifier.DefaultWeights(), quietLogger()); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "rules.yaml")
	writeRules(t, path, mascotRules)
	w := classifier.DefaultWeights()
	w.CategoryDivisor = 0
	if _, err := NewManager(path, w, quietLogger()); err == nil {
		t.Error("expected error for invalid weights")
	}
}

func TestManager_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, mascotRules)

	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "test"}, nil)
	cfg := config.Default().Classifier
	cfg.RulesPath = path
	m, err := NewFromConfig(cfg, quietLogger(), collector)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	if got := m.Analyze("need a mascot").CategoryName(); got != "mascot" {
		t.Fatalf("category = %q, want mascot", got)
	}

	writeRules(t, path, badgeRules)
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := m.Analyze("need a badge").CategoryName(); got != "badge" {
		t.Errorf("category after reload = %q, want badge", got)
	}
	if m.Status().Version != 2 {
		t.Errorf("version = %d, want 2", m.Status().Version)
	}

	// An invalid file keeps the previous rules.
	writeRules(t, path, "categories:\n  - name: broken\n    complexity: extreme\n")
	if err := m.Reload(); err == nil {
		t.Fatal("Reload() should fail for invalid rules")
	}
	if got := m.Analyze("need a badge").CategoryName(); got != "badge" {
		t.Errorf("category after failed reload = %q, want badge", got)
	}
	if m.Status().LastError == "" {
		t.Error("Status().LastError should be set after a failed reload")
	}

	reg := collector.Registry()
	if n, err := testutil.GatherAndCount(reg, "test_rules_reloads_total"); err != nil || n != 2 {
		t.Errorf("rules_reloads_total series = %d (err %v), want 2", n, err)
	}
}

func TestManager_ConcurrentAnalyzeAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, mascotRules)

	m, err := NewManager(path, classifier.DefaultWeights(), quietLogger())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = m.Analyze("a mascot character, urgent")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_ = m.Reload()
	}
	wg.Wait()
}

func TestWeightsFromConfig(t *testing.T) {
	if got := WeightsFromConfig(config.DefaultWeights()); got != classifier.DefaultWeights() {
		t.Errorf("WeightsFromConfig(defaults) = %+v, want %+v", got, classifier.DefaultWeights())
	}

	cw := config.DefaultWeights()
	cw.Budget = 0
	cw.Threshold = 0
	w := WeightsFromConfig(cw)
	want := classifier.DefaultWeights()
	want.Budget = 0
	want.Threshold = 0
	if w != want {
		t.Errorf("WeightsFromConfig() = %+v, want %+v", w, want)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("zero budget and threshold should be valid: %v", err)
	}
}

func TestManager_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, mascotRules)

	cfg := config.Default().Classifier
	cfg.RulesPath = path
	cfg.Watch = true
	cfg.WatchDebounce = 20 * time.Millisecond
	m, err := NewFromConfig(cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	writeRules(t, path, badgeRules)

	deadline := time.Now().Add(3 * time.Second)
	for m.Analyze("badge").CategoryName() != "badge" {
		if time.Now().After(deadline) {
			t.Fatal("rules were not reloaded after file change")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch() did not return after cancel")
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(150 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback ran %d times, want 1", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("last callback = %d, want 5", last.Load())
	}

	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 1 {
		t.Error("callback ran after Stop")
	}
}
