package generator

import (
	"strings"
	"testing"

	"palette-hq/scout/pkg/classifier"
)

func TestBuildBriefPrompt(t *testing.T) {
	t.Run("without analysis", func(t *testing.T) {
		got := BuildBriefPrompt("Need a poster", nil)
		if !strings.HasPrefix(got, `Create a comprehensive graphic design brief based on this client request: "Need a poster".`) {
			t.Errorf("unexpected prefix: %q", got[:80])
		}
		if strings.Contains(got, "Client Analysis Context") {
			t.Error("analysis block present without analysis")
		}
		if !strings.Contains(got, "PROJECT DELIVERABLES") {
			t.Error("brief sections missing")
		}
	})

	t.Run("with analysis", func(t *testing.T) {
		a := classifier.MessageAnalysis{
			Urgency:    classifier.Urgency{Level: classifier.LevelHigh},
			Budget:     classifier.Budget{Level: classifier.LevelLow, EstimatedRange: "$5-$25"},
			Sentiment:  classifier.Sentiment{Sentiment: classifier.SentimentPositive},
			Confidence: 0.51,
			Requirements: classifier.Requirements{
				Colors: []string{"blue"},
			},
		}
		got := BuildBriefPrompt("Need a poster", &a)

		for _, want := range []string{
			"Design Category: general",
			"Urgency Level: high",
			"Budget Range: $5-$25",
			"Client Sentiment: positive",
			`"colors": [`,
			"Confidence Score: 51%",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})
}

func TestBuildVisualPrompt(t *testing.T) {
	brief := strings.Repeat("é", 600)
	got := BuildVisualPrompt(brief)

	if n := strings.Count(got, "é"); n != visualBriefLimit {
		t.Errorf("quoted %d brief characters, want %d", n, visualBriefLimit)
	}
	if !strings.Contains(got, "Balanced composition") {
		t.Error("visual guidance missing")
	}

	short := BuildVisualPrompt("Blue logo")
	if !strings.Contains(short, `"Blue logo"...`) {
		t.Errorf("short brief not quoted whole: %q", short)
	}
}
