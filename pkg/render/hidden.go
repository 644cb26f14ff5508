package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries a request forgery token under the caller's input name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields drops unnamed entries, lets later duplicates win, and
// sorts by name for deterministic output.
func SortedHiddenFields(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}
