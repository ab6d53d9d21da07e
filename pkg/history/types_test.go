package history

import (
	"errors"
	"testing"
	"time"

	"palette-hq/scout/pkg/classifier"
)

func TestNewRecord(t *testing.T) {
	c := classifier.MustNew(classifier.DefaultRules(), classifier.DefaultWeights())
	a := c.Analyze("Need an urgent logo, premium budget")

	r := NewRecord(a, SourceAPI)
	if r.Category != "logo" || r.Urgency != "high" || r.Budget != "high" {
		t.Errorf("summary = %s/%s/%s", r.Category, r.Urgency, r.Budget)
	}
	if r.Confidence != a.Confidence || r.IsDesignRequest != a.IsDesignRequest {
		t.Error("confidence not copied")
	}
	if r.Analysis == nil || r.Analysis.Text != a.Text {
		t.Error("analysis not attached")
	}
	if r.Status != StatusAnalyzed || r.Source != SourceAPI {
		t.Errorf("status/source = %s/%s", r.Status, r.Source)
	}
}

func TestQueryMatches(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	min := 0.5

	r := &Record{
		Channel:         "design",
		Category:        "logo",
		Source:          SourceMonitor,
		Status:          StatusBriefed,
		Confidence:      0.6,
		IsDesignRequest: true,
		CreatedAt:       now,
	}

	tests := []struct {
		name  string
		query *Query
		want  bool
	}{
		{"nil query", nil, true},
		{"empty query", &Query{}, true},
		{"channel", &Query{Channel: "design"}, true},
		{"other channel", &Query{Channel: "general"}, false},
		{"category", &Query{Category: "flyer"}, false},
		{"requests only", &Query{DesignRequestsOnly: true}, true},
		{"min confidence", &Query{MinConfidence: &min}, true},
		{"end before record", &Query{EndTime: &earlier}, false},
		{"start before record", &Query{StartTime: &earlier}, true},
		{"status", &Query{Status: StatusFailed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(r); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	for _, err := range []error{
		NewStorageError("sqlite", "store", cause),
		&RecorderError{RecordID: "r1", Cause: cause},
		&RetentionError{RetentionDays: 30, Cause: cause},
		NewExportError("csv", 3, cause),
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
		if err.Error() == "" {
			t.Errorf("%T has empty message", err)
		}
	}
}
