package logger

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

const maskValue = "******"

// defaultSensitiveFields are masked when a field key equals one of them or
// carries one as an underscore separated prefix or suffix.
var defaultSensitiveFields = []string{
	"password", "passwd",
	"token", "access_token", "refresh_token", "authorization",
	"secret", "api_key", "apikey",
	"code", "verify_code",
}

// bearerPattern matches signed JWTs embedded in free text.
var bearerPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)

// Desensitizer masks sensitive log fields before emission.
type Desensitizer struct {
	fields []string
}

// NewDesensitizer creates a new desensitizer. Extra field names extend the
// default list.
func NewDesensitizer(extra ...string) *Desensitizer {
	fields := make([]string, 0, len(defaultSensitiveFields)+len(extra))
	fields = append(fields, defaultSensitiveFields...)
	for _, f := range extra {
		fields = append(fields, strings.ToLower(f))
	}
	return &Desensitizer{fields: fields}
}

// Levels implements logrus.Hook.
func (d *Desensitizer) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (d *Desensitizer) Fire(entry *logrus.Entry) error {
	entry.Data = d.DesensitizeFields(entry.Data)
	entry.Message = bearerPattern.ReplaceAllString(entry.Message, maskValue)
	return nil
}

// DesensitizeFields returns a copy of fields with sensitive values masked.
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > 8 {
		return value
	}
	if d.isSensitiveField(key) {
		return maskValue
	}

	switch v := value.(type) {
	case string:
		return bearerPattern.ReplaceAllString(v, maskValue)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = d.desensitizeValue(k, item, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if d.isSensitiveField(k) {
				out[k] = maskValue
				continue
			}
			out[k] = bearerPattern.ReplaceAllString(item, maskValue)
		}
		return out
	default:
		return value
	}
}

// isSensitiveField checks the key against the sensitive field list
func (d *Desensitizer) isSensitiveField(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, f := range d.fields {
		if lower == f || strings.HasPrefix(lower, f+"_") || strings.HasSuffix(lower, "_"+f) {
			return true
		}
	}
	return false
}
