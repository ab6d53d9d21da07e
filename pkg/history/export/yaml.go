package export

import (
	"context"
	"io"

	"palette-hq/scout/pkg/history"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes records as a YAML sequence.
type YAMLExporter struct{}

// Export writes records to w.
func (YAMLExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	if records == nil {
		records = []*history.Record{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return history.NewExportError(FormatYAML, len(records), err)
	}
	if err := enc.Close(); err != nil {
		return history.NewExportError(FormatYAML, len(records), err)
	}
	return nil
}
