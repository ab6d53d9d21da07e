package export

import (
	"fmt"
	"strings"

	"palette-hq/scout/pkg/history"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatCSV, FormatYAML}

// New returns the exporter for format. JSON is pretty-printed and CSV
// carries a header row.
func New(format string) (history.Exporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	case FormatYAML, "yml":
		return YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}
