package render

import (
	"strings"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload assigns messages to the form's fields. Keys may be plain
// field names or pointer-style paths such as "/body/email" or "$.email";
// anything that does not resolve to a field becomes a form-level message so
// nothing is lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		known[field.Name] = struct{}{}
	}

	for key, messages := range payload {
		cleaned := normalizeMessages(messages)
		if len(cleaned) == 0 {
			continue
		}
		name, ok := resolveFieldKey(key, known)
		if !ok {
			mapping.Form = append(mapping.Form, cleaned...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], cleaned...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolveFieldKey(key string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(key)
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}
	if isFormLevelKey(trimmed) {
		return "", false
	}

	segments := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '.' || r == '/' || r == '$' || r == '#'
	})
	segments = dropWrapperSegments(segments)
	if len(segments) != 1 {
		return "", false
	}
	_, ok := known[segments[0]]
	return segments[0], ok
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "values":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
