package export

import (
	"context"
	"encoding/json"
	"io"

	"palette-hq/scout/pkg/history"
)

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	// Pretty indents the output.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records to w. An empty input writes "[]".
func (e *JSONExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	if records == nil {
		records = []*history.Record{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return history.NewExportError(FormatJSON, len(records), err)
	}
	return nil
}
