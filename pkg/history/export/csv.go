package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"palette-hq/scout/pkg/history"
)

var csvHeader = []string{
	"id", "created_at", "source", "channel", "author", "message_id",
	"category", "urgency", "budget", "sentiment", "confidence", "is_design_request",
	"colors", "style", "deliverables",
	"status", "error", "text", "brief",
}

// CSVExporter writes one row per record. Requirement lists are joined with
// semicolons.
type CSVExporter struct {
	// IncludeHeader writes a header row first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes records to w.
func (e *CSVExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return history.NewExportError(FormatCSV, len(records), err)
		}
	}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return history.NewExportError(FormatCSV, len(records), err)
		}
		if err := writer.Write(recordToRow(r)); err != nil {
			return history.NewExportError(FormatCSV, len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

func recordToRow(r *history.Record) []string {
	var colors, style, deliverables string
	if r.Analysis != nil {
		colors = strings.Join(r.Analysis.Requirements.Colors, ";")
		style = strings.Join(r.Analysis.Requirements.Style, ";")
		deliverables = strings.Join(r.Analysis.Requirements.Deliverables, ";")
	}
	return []string{
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Source,
		r.Channel,
		r.Author,
		r.MessageID,
		r.Category,
		r.Urgency,
		r.Budget,
		r.Sentiment,
		strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		strconv.FormatBool(r.IsDesignRequest),
		colors,
		style,
		deliverables,
		r.Status,
		r.Error,
		r.Text,
		r.Brief,
	}
}
