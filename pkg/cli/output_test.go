package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type rendered struct{}

func (rendered) RenderText(w io.Writer) error {
	_, err := io.WriteString(w, "custom\n")
	return err
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{" yaml ", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json format should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml format should give YAMLFormatter")
	}
	if _, ok := NewFormatter("other").(*TextFormatter); !ok {
		t.Error("unknown format should give TextFormatter")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{}

	if err := f.FormatTo(&buf, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := f.FormatTo(&buf, rendered{}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "hello\ncustom\n" {
		t.Errorf("output = %q", got)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, sample{Name: "logo", Count: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"name\": \"logo\"") {
		t.Errorf("expected indented JSON, got %q", buf.String())
	}
	var got sample
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || got.Count != 2 {
		t.Errorf("decoded %+v, err %v", got, err)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatYAML).FormatTo(&buf, sample{Name: "web", Count: 3}); err != nil {
		t.Fatal(err)
	}
	var got sample
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "web" || got.Count != 3 {
		t.Errorf("decoded %+v", got)
	}
}

func TestYAMLFormatter_UsesJSONNames(t *testing.T) {
	type tagged struct {
		DeliveryTimeline string   `json:"delivery_timeline"`
		Formats          []string `json:"formats"`
	}

	var buf bytes.Buffer
	if err := NewFormatter(FormatYAML).FormatTo(&buf, tagged{DeliveryTimeline: "3-5 days", Formats: []string{"PNG", "SVG"}}); err != nil {
		t.Fatal(err)
	}
	want := "delivery_timeline: 3-5 days\nformats:\n  - PNG\n  - SVG\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	err := PrintTable(&buf, [][]string{{"ID", "Category"}, {"abc", "logo"}})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ID", "Category", "abc", "logo"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := PrintTable(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("empty table wrote %q, err %v", buf.String(), err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a  b\nc", 10, "a b c"},
		{"abcdefghij", 6, "abc..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
