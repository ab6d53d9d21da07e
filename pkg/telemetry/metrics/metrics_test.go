package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		DurationBuckets: []float64{0.1, 1, 10},
	}
}

func testAnalysis() classifier.MessageAnalysis {
	return classifier.MessageAnalysis{
		Categories:      []classifier.CategoryMatch{{Name: "logo", MatchCount: 1}},
		Urgency:         classifier.Urgency{Level: classifier.LevelHigh},
		Budget:          classifier.Budget{Level: classifier.LevelMedium},
		Confidence:      0.51,
		IsDesignRequest: true,
	}
}

func TestCollector_RecordAnalysis(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordAnalysis(testAnalysis())
	c.RecordAnalysis(classifier.MessageAnalysis{
		Urgency: classifier.Urgency{Level: classifier.LevelMedium},
		Budget:  classifier.Budget{Level: classifier.LevelUnknown},
	})

	if got := testutil.ToFloat64(c.classifier.analyses.WithLabelValues("logo", "true")); got != 1 {
		t.Errorf("expected 1 logo request, got %v", got)
	}
	if got := testutil.ToFloat64(c.classifier.analyses.WithLabelValues("general", "false")); got != 1 {
		t.Errorf("expected 1 general non-request, got %v", got)
	}
	if got := testutil.ToFloat64(c.classifier.budget.WithLabelValues("unknown")); got != 1 {
		t.Errorf("expected 1 unknown budget, got %v", got)
	}
	if got := testutil.CollectAndCount(c.classifier.confidence); got != 1 {
		t.Errorf("expected one confidence histogram, got %d", got)
	}
}

func TestCollector_RecordGeneration(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordGeneration("brief", "success", 1500*time.Millisecond)
	c.RecordGeneration("brief", "rate_limit", time.Second)
	c.RecordRetry("brief")
	c.RecordRetry("brief")

	if got := testutil.ToFloat64(c.generation.requests.WithLabelValues("brief", "success")); got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(c.generation.retries.WithLabelValues("brief")); got != 2 {
		t.Errorf("expected 2 retries, got %v", got)
	}
}

func TestCollector_Pipeline(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordMessage("kafka", "request")
	c.RecordMessage("kafka", "duplicate")
	c.RecordPruned(5)
	c.RecordPruned(0)
	c.RecordDropped()
	c.RecordRulesReload(true)
	c.RecordRulesReload(false)

	if got := testutil.ToFloat64(c.pipeline.messages.WithLabelValues("kafka", "request")); got != 1 {
		t.Errorf("expected 1 request message, got %v", got)
	}
	if got := testutil.ToFloat64(c.pipeline.pruned); got != 5 {
		t.Errorf("expected 5 pruned, got %v", got)
	}
	if got := testutil.ToFloat64(c.pipeline.dropped); got != 1 {
		t.Errorf("expected 1 dropped, got %v", got)
	}
	if got := testutil.ToFloat64(c.pipeline.reloads.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed reload, got %v", got)
	}
}

func TestCollector_DisabledAndNil(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	disabled := NewCollector(cfg, nil)
	disabled.RecordAnalysis(testAnalysis())
	disabled.RecordMessage("stdin", "request")

	if got := testutil.ToFloat64(disabled.classifier.analyses.WithLabelValues("logo", "true")); got != 0 {
		t.Errorf("disabled collector recorded %v", got)
	}

	var nilCollector *Collector
	nilCollector.RecordAnalysis(testAnalysis())
	nilCollector.RecordGeneration("brief", "success", time.Second)
	nilCollector.RecordPruned(3)
	if nilCollector.Registry() != nil {
		t.Error("nil collector should have nil registry")
	}

	rec := httptest.NewRecorder()
	nilCollector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil collector, got %d", rec.Code)
	}
}

func TestCollector_CategoryCardinality(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	c.categories = NewCardinalityLimiter(1)

	a := testAnalysis()
	c.RecordAnalysis(a)
	a.Categories[0].Name = "packaging"
	c.RecordAnalysis(a)

	if got := testutil.ToFloat64(c.classifier.analyses.WithLabelValues(OtherLabel, "true")); got != 1 {
		t.Errorf("expected overflow category in %q, got %v", OtherLabel, got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("expected first two values allowed")
	}
	if !cl.Allow("a") {
		t.Error("known value should stay allowed")
	}
	if cl.Allow("c") {
		t.Error("third value should be rejected")
	}
	if cl.Count() != 2 {
		t.Errorf("expected count 2, got %d", cl.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	if err := c.RegisterRuntimeCollectors(); err != nil {
		t.Fatalf("RegisterRuntimeCollectors() failed: %v", err)
	}
	c.RecordAnalysis(testAnalysis())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"test_analyses_total", "test_confidence_bucket", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}
