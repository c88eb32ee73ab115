package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log attribute values.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			// OpenAI and Anthropic keys (sk-..., sk-ant-...)
			{regex: regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{8,}`), replacement: "sk-***"},
			{regex: regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), replacement: "Bearer ***"},
		},
	}
}

// RedactString masks credentials found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr function. Values of
// sensitive keys are replaced entirely; other string values are scanned for
// credentials.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		if a.Value.Kind() == slog.KindAny {
			if err, ok := a.Value.Any().(error); ok {
				return slog.String(a.Key, r.RedactString(err.Error()))
			}
		}
		return a
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactKey(a.Value.String()))
	}
	return slog.String(a.Key, r.RedactString(a.Value.String()))
}

// isSensitiveKey checks if a key name indicates credential data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range []string{"api_key", "apikey", "secret", "token", "authorization", "password"} {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactKey masks an API key, keeping only a short prefix for identification.
func RedactKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
