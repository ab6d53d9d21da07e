package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is human-readable output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML output.
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", s)
	}
}

// Formatter writes command results.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextRenderer is implemented by results with their own text form.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// TextFormatter writes TextRenderer output, or the value's default format.
type TextFormatter struct{}

// FormatTo writes data to w as text.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	if r, ok := data.(TextRenderer); ok {
		return r.RenderText(w)
	}
	s := fmt.Sprint(data)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML. Keys follow the JSON field names so
// both formats describe a value the same way.
type YAMLFormatter struct{}

// FormatTo writes data to w as YAML.
func (f *YAMLFormatter) FormatTo(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles that JSON input leaves on
// every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// NewFormatter creates a formatter for format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// PrintTable renders rows as a table; the first row is the header.
func PrintTable(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
