package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, format string, redact bool) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: format, RedactSecrets: redact, Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return l, &buf
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_JSON(t *testing.T) {
	l, buf := newBufferLogger(t, "json", false)
	l.Info("classified", "category", "logo", "confidence", 0.51)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "classified" || entry["category"] != "logo" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be logged")
	}
	if l.Enabled(slog.LevelDebug) {
		t.Error("debug should not be enabled")
	}
}

func TestLogger_ConsoleOmitsTime(t *testing.T) {
	l, buf := newBufferLogger(t, "console", false)
	l.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console format should omit time: %s", buf.String())
	}
}

func TestLogger_Redaction(t *testing.T) {
	key := "AIza" + strings.Repeat("x", 35)
	l, buf := newBufferLogger(t, "text", true)

	l.Info("calling gemini", "api_key", key, "url", "https://host/v1?key="+key)

	out := buf.String()
	if strings.Contains(out, key) {
		t.Errorf("API key leaked: %s", out)
	}
}

func TestLogger_RedactionDisabled(t *testing.T) {
	l, buf := newBufferLogger(t, "text", false)
	l.Info("contact", "email", "a@example.com")

	if !strings.Contains(buf.String(), "a@example.com") {
		t.Errorf("expected raw value without redaction: %s", buf.String())
	}
}

func TestLogger_ContextFields(t *testing.T) {
	l, buf := newBufferLogger(t, "json", false)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithMessageID(ctx, "msg-9")
	ctx = WithChannel(ctx, "general")
	l.InfoContext(ctx, "processing")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for k, want := range map[string]string{"request_id": "req-1", "message_id": "msg-9", "channel": "general"} {
		if entry[k] != want {
			t.Errorf("expected %s=%q, got %v", k, want, entry[k])
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newBufferLogger(t, "text", false)

	if got := l.WithContext(context.Background()); got != l {
		t.Error("WithContext without fields should return the same logger")
	}

	l.WithContext(WithOperation(context.Background(), "brief")).Info("done")
	if !strings.Contains(buf.String(), "operation=brief") {
		t.Errorf("expected operation field: %s", buf.String())
	}
}

func TestLogger_SlogRedacts(t *testing.T) {
	l, buf := newBufferLogger(t, "text", true)
	key := "AIza" + strings.Repeat("y", 35)

	l.Slog().With("api_key", key).Info("via slog", "note", "key is "+key)

	if strings.Contains(buf.String(), key) {
		t.Errorf("API key leaked through Slog(): %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	if l.Enabled(slog.LevelError) {
		t.Error("Nop logger should not enable any level")
	}
}
