package secrets

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Redactor scrubs sensitive data from the strings, maps and JSON it is
// handed; nothing in this module hands it log lines or telemetry reports.
// Adapted from the teacher's Redactor, narrowed to
// the patterns spec §7 calls out explicitly plus the structural patterns
// (bearer tokens, JWTs, key=value secrets) that any HTTP-bearing component
// here can actually emit.
type Redactor struct {
	patterns    []*regexp.Regexp
	replacement string
}

func NewRedactor() *Redactor {
	defaultPatterns := []string{
		`(?i)(?:api[_-]?key|token|secret|password|pwd|bearer|authorization)["\s]*[:=]["\s]*[^\s"',}]+`,
		`(?i)bearer\s+[a-zA-Z0-9\-\._~\+/]+=*`,
		`(?i)basic\s+[a-zA-Z0-9\+/]+=*`,
		`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`,
	}

	patterns := make([]*regexp.Regexp, len(defaultPatterns))
	for i, pattern := range defaultPatterns {
		patterns[i] = regexp.MustCompile(pattern)
	}

	return &Redactor{patterns: patterns, replacement: "[REDACTED]"}
}

func (r *Redactor) AddPattern(pattern string) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid redaction pattern: %w", err)
	}
	r.patterns = append(r.patterns, compiled)
	return nil
}

func (r *Redactor) RedactString(input string) string {
	result := input
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

func (r *Redactor) RedactMap(input map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(input))
	for k, v := range input {
		if r.isSensitiveKey(k) {
			result[k] = r.replacement
			continue
		}
		result[k] = r.redactValue(v)
	}
	return result
}

func (r *Redactor) RedactJSON(input []byte) ([]byte, error) {
	var data interface{}
	if err := json.Unmarshal(input, &data); err != nil {
		return []byte(r.RedactString(string(input))), nil
	}
	return json.Marshal(r.redactValue(data))
}

func (r *Redactor) redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return r.RedactString(v)
	case map[string]interface{}:
		return r.RedactMap(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = r.redactValue(val)
		}
		return result
	default:
		return value
	}
}

func (r *Redactor) isSensitiveKey(key string) bool {
	sensitive := []string{"password", "pwd", "secret", "token", "key", "auth", "bearer", "authorization"}
	lower := strings.ToLower(key)
	for _, s := range sensitive {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
