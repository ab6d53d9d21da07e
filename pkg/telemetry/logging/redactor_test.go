package logging

import (
	"log/slog"
	"strings"
	"testing"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor()
	key := "AIza" + strings.Repeat("A", 35)

	tests := []struct {
		name   string
		input  string
		leaked string
		want   string
	}{
		{"gemini key", "key is " + key, key, "key is AIza***"},
		{"bearer", "Authorization: Bearer abc.def", "abc.def", "Authorization: Bearer ***"},
		{"query param", "GET /v1/models?key=secret123&x=1", "secret123", "GET /v1/models?key=***&x=1"},
		{"email", "mail me at jo@example.com", "jo@example.com", "mail me at ***@***"},
		{"password", "password=hunter2", "hunter2", "password: ***"},
		{"plain", "just a logo request", "", "just a logo request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.RedactString(tt.input)
			if tt.leaked != "" && strings.Contains(got, tt.leaked) {
				t.Errorf("value leaked: %q", got)
			}
			if got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor()
	args := r.RedactArgs(
		"api_key", "abcdefghijkl",
		"max_output_tokens", 2048,
		"text", "contact jo@example.com",
		slog.String("gemini_api_key", "abcdefghijkl"),
	)

	if args[1] != "abcd***" {
		t.Errorf("expected sensitive key masked, got %v", args[1])
	}
	if args[3] != 2048 {
		t.Errorf("non-sensitive value changed: %v", args[3])
	}
	if args[5] != "contact ***@***" {
		t.Errorf("expected email masked, got %v", args[5])
	}
	attr, ok := args[6].(slog.Attr)
	if !ok || attr.Value.String() != "abcd***" {
		t.Errorf("expected attr masked, got %v", args[6])
	}
}

func TestRedactor_RedactAttrGroup(t *testing.T) {
	r := NewRedactor()
	a := r.RedactAttr(slog.Group("gemini", slog.String("token", "abcdefghijkl"), slog.Int("retries", 3)))

	group := a.Value.Group()
	if len(group) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(group))
	}
	if group[0].Value.String() != "abcd***" {
		t.Errorf("expected token masked, got %v", group[0].Value)
	}
	if group[1].Value.Int64() != 3 {
		t.Errorf("expected retries kept, got %v", group[1].Value)
	}
}

func TestRedactAPIKey(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"short":        "***",
		"AIzaSyABCDEF": "AIza***",
	}
	for in, want := range tests {
		if got := RedactAPIKey(in); got != want {
			t.Errorf("RedactAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}
