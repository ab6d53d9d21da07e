package classifier

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultRules_Valid(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestDefaultRules_FreshCopy(t *testing.T) {
	a := DefaultRules()
	a.Categories[0].Name = "changed"
	a.BudgetRanges[LevelLow] = "changed"

	b := DefaultRules()
	if b.Categories[0].Name != "logo" || b.BudgetRanges[LevelLow] != "$5-$25" {
		t.Error("DefaultRules shares state between calls")
	}
}

func TestParseRules_PartialDocumentKeepsDefaults(t *testing.T) {
	doc := `
categories:
  - name: illustration
    keywords: [illustration, drawing]
    complexity: high
budget_ranges:
  low: "$1-$20"
`
	rules, err := ParseRules([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}

	if len(rules.Categories) != 1 || rules.Categories[0].Name != "illustration" {
		t.Errorf("expected categories to be replaced, got %+v", rules.Categories)
	}
	if rules.BudgetRanges[LevelLow] != "$1-$20" {
		t.Errorf("expected overridden low range, got %q", rules.BudgetRanges[LevelLow])
	}
	if rules.BudgetRanges[LevelHigh] != "$75-$200+" {
		t.Errorf("expected default high range, got %q", rules.BudgetRanges[LevelHigh])
	}
	if len(rules.Styles) != len(DefaultRules().Styles) {
		t.Errorf("expected default styles, got %v", rules.Styles)
	}

	c, err := New(rules, DefaultWeights())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := c.Analyze("a DRAWING of a fox").CategoryName(); got != "illustration" {
		t.Errorf("expected illustration, got %s", got)
	}
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			doc:     "categories: [",
			wantErr: "failed to parse rules",
		},
		{
			name: "missing name",
			doc: `
categories:
  - keywords: [x]
    complexity: low
`,
			wantErr: "name is required",
		},
		{
			name: "duplicate category",
			doc: `
categories:
  - {name: a, keywords: [x], complexity: low}
  - {name: a, keywords: [y], complexity: low}
`,
			wantErr: "duplicate category",
		},
		{
			name: "bad complexity",
			doc: `
categories:
  - {name: a, keywords: [x], complexity: huge}
`,
			wantErr: "complexity must be",
		},
		{
			name: "score out of range",
			doc: `
urgency_scores:
  high: 1.5
`,
			wantErr: "between 0 and 1",
		},
		{
			name: "unknown urgency level",
			doc: `
urgency:
  - {level: unknown, phrases: [x]}
`,
			wantErr: "level must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	rules := DefaultRules()
	rules.Categories[0].Name = ""
	rules.Categories[1].Keywords = nil
	rules.Categories[2].Complexity = "none"

	err := rules.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"name is required", "at least one keyword", "complexity must be"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	data, err := DefaultRules().Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() failed: %v", err)
	}
	if len(rules.Categories) != 5 || rules.Categories[4].Name != "packaging" {
		t.Errorf("unexpected categories after load: %+v", rules.Categories)
	}

	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Weights)
	}{
		{"negative category", func(w *Weights) { w.Category = -1 }},
		{"zero divisor", func(w *Weights) { w.CategoryDivisor = 0 }},
		{"threshold above one", func(w *Weights) { w.Threshold = 1.1 }},
		{"negative budget", func(w *Weights) { w.Budget = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.modify(&w)
			if err := w.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
