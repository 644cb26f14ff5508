package render

import (
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

// ErrorMapping splits messages into field-level and form-level buckets keyed
// by declared field names.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapOutcome converts a rejected outcome into per-field message lists.
// Accepted outcomes map to nil.
func MapOutcome(outcome validation.Outcome) map[string][]string {
	errs := outcome.Errors()
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for name, message := range errs {
		out[name] = []string{message}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises an error payload returned by a submission
// endpoint (JSON pointer or dotted paths, optionally wrapped in "body" or
// "data" segments) onto the form's field names. Paths that do not name a
// declared field become form-level messages.
func MapErrorPayload(form model.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	declared := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		declared[field.Name] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, ok := fieldFromPath(rawPath, declared)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], normalized...))
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func fieldFromPath(raw string, declared map[string]struct{}) (string, bool) {
	segments := pathSegments(raw)
	for len(segments) > 0 && isWrapperSegment(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return "", false
	}
	if _, ok := declared[segments[0]]; ok {
		return segments[0], true
	}
	return "", false
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	if clean == "" {
		return nil
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/' || r == '[' || r == ']'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "attributes":
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
