package classifier

import (
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	c := newTestClassifier(t)
	out := Report(c.Analyze("I need a logo design, budget $50, needed asap, bold and modern style, in blue"))

	for _, want := range []string{
		"Message Analysis Report",
		"Category:   logo",
		"Urgency:    high (90%)",
		"Budget:     medium ($50)",
		"Sentiment:  neutral",
		"Colors:       blue",
		"Style:        modern, bold",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	for _, absent := range []string{"Dimensions:", "Deliverables:", "Revisions:"} {
		if strings.Contains(out, absent) {
			t.Errorf("report should omit empty section %q:\n%s", absent, out)
		}
	}
}

func TestReport_General(t *testing.T) {
	c := newTestClassifier(t)
	out := Report(c.Analyze(""))

	if !strings.Contains(out, "Category:   General") {
		t.Errorf("expected General category:\n%s", out)
	}
	if !strings.Contains(out, "Budget:     unknown (Not specified)") {
		t.Errorf("expected unknown budget:\n%s", out)
	}
	if !strings.Contains(out, "Confidence: 10%") {
		t.Errorf("expected 10%% confidence:\n%s", out)
	}
}
