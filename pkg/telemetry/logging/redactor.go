package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks secrets and personal data in log values.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Pattern names.
const (
	PatternGeminiKey   = "gemini_key"
	PatternBearerToken = "bearer_token"
	PatternKeyParam    = "key_param"
	PatternEmail       = "email"
	PatternPassword    = "password"
)

// Patterns are applied in order.
var defaultPatterns = []struct {
	name, regex, replacement string
}{
	// Google API keys are "AIza" followed by 35 URL-safe characters.
	{PatternGeminiKey, `AIza[0-9A-Za-z_\-]{35}`, "AIza***"},
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternKeyParam, `([?&](?:key|api_key)=)[^&\s]+`, "${1}***"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "***@***"},
	{PatternPassword, `(?i)(password|passwd|pwd)[:=]\s*\S+`, "$1: ***"},
}

// sensitiveKeys mark attribute keys (exact or as a _suffix) whose values are
// masked outright.
var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "authorization", "private_key",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	r := &Redactor{patterns: make([]redactPattern, 0, len(defaultPatterns))}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
	return r
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactArgs redacts slog-style arguments: key/value pairs and slog.Attr values.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		switch v := out[i].(type) {
		case slog.Attr:
			out[i] = r.RedactAttr(v)
		case string:
			if i+1 >= len(out) {
				out[i] = r.RedactString(v)
				continue
			}
			out[i+1] = r.redactValue(v, out[i+1])
			i++
		}
	}
	return out
}

// RedactAttr redacts a single attribute, descending into groups.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindString:
		return slog.Any(a.Key, r.redactValue(a.Key, a.Value.String()))
	}
	return a
}

func (r *Redactor) redactValue(key string, value any) any {
	if isSensitiveKey(key) {
		if s, ok := value.(string); ok {
			return RedactAPIKey(s)
		}
		return "***"
	}
	if s, ok := value.(string); ok {
		return r.RedactString(s)
	}
	return value
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if lower == s || strings.HasSuffix(lower, "_"+s) {
			return true
		}
	}
	return false
}

// RedactAPIKey keeps the first four characters of a key for identification.
func RedactAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***"
}
