package history

import (
	"context"
	"io"
	"time"

	"palette-hq/scout/pkg/classifier"
)

// Record sources.
const (
	SourceCLI     = "cli"
	SourceAPI     = "api"
	SourceMonitor = "monitor"
)

// Record statuses.
const (
	StatusAnalyzed = "analyzed"
	StatusBriefed  = "briefed"
	StatusFailed   = "failed"
)

// Record is one analysed message.
type Record struct {
	ID        string `json:"id" yaml:"id"`
	MessageID string `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	Channel   string `json:"channel,omitempty" yaml:"channel,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Source    string `json:"source" yaml:"source"`
	Text      string `json:"text" yaml:"text"`

	// Summary columns, denormalized from Analysis for filtering.
	Category        string  `json:"category" yaml:"category"`
	Urgency         string  `json:"urgency" yaml:"urgency"`
	Budget          string  `json:"budget" yaml:"budget"`
	Sentiment       string  `json:"sentiment" yaml:"sentiment"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	IsDesignRequest bool    `json:"is_design_request" yaml:"is_design_request"`

	Analysis *classifier.MessageAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`

	Brief  string `json:"brief,omitempty" yaml:"brief,omitempty"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewRecord builds a record from an analysis. ID and CreatedAt are assigned
// by the recorder when left empty.
func NewRecord(a classifier.MessageAnalysis, source string) *Record {
	return &Record{
		Source:          source,
		Text:            a.Text,
		Category:        a.CategoryName(),
		Urgency:         string(a.Urgency.Level),
		Budget:          string(a.Budget.Level),
		Sentiment:       string(a.Sentiment.Sentiment),
		Confidence:      a.Confidence,
		IsDesignRequest: a.IsDesignRequest,
		Analysis:        &a,
		Status:          StatusAnalyzed,
	}
}

// Query filters history records. Zero fields do not filter.
type Query struct {
	StartTime *time.Time `json:"start_time,omitempty"` // inclusive
	EndTime   *time.Time `json:"end_time,omitempty"`   // inclusive

	Channel  string `json:"channel,omitempty"`
	Category string `json:"category,omitempty"`
	Source   string `json:"source,omitempty"`
	Status   string `json:"status,omitempty"`

	// DesignRequestsOnly keeps only records classified as requests.
	DesignRequestsOnly bool `json:"design_requests_only,omitempty"`

	MinConfidence *float64 `json:"min_confidence,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Ascending returns oldest first; the default is newest first.
	Ascending bool `json:"ascending,omitempty"`
}

// Matches reports whether r passes every filter of q.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	switch {
	case q.StartTime != nil && r.CreatedAt.Before(*q.StartTime):
		return false
	case q.EndTime != nil && r.CreatedAt.After(*q.EndTime):
		return false
	case q.Channel != "" && r.Channel != q.Channel:
		return false
	case q.Category != "" && r.Category != q.Category:
		return false
	case q.Source != "" && r.Source != q.Source:
		return false
	case q.Status != "" && r.Status != q.Status:
		return false
	case q.DesignRequestsOnly && !r.IsDesignRequest:
		return false
	case q.MinConfidence != nil && r.Confidence < *q.MinConfidence:
		return false
	}
	return true
}

// Storage is a history backend. Implementations are safe for concurrent use.
type Storage interface {
	// Store persists a record. Storing an existing ID replaces it.
	Store(ctx context.Context, record *Record) error

	// Get returns one record, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Query returns matching records. An empty result is an empty slice.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of matching records. Limit and Offset are
	// ignored.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records created before olderThan.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)

	// DeleteOldest removes the oldest records so that at most keep remain.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases backend resources.
	Close() error
}

// Exporter writes records in some file format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
