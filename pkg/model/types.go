package model

import (
	"errors"
	"fmt"
	"strings"
)

// IconReference points at an image rendered next to a control.
type IconReference struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Option is a selectable entry for single-select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// FieldDescriptor is the declarative configuration for one form field.
// DateFormat, ShowTimeSelect, and Options only apply to the kinds that use
// them and are carried through untouched otherwise.
type FieldDescriptor struct {
	Kind           FieldKind      `json:"kind" yaml:"kind"`
	Name           string         `json:"name" yaml:"name"`
	Label          string         `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder    string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Icon           *IconReference `json:"icon,omitempty" yaml:"icon,omitempty"`
	Disabled       bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	DateFormat     string         `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	ShowTimeSelect bool           `json:"showTimeSelect,omitempty" yaml:"showTimeSelect,omitempty"`
	Options        []Option       `json:"options,omitempty" yaml:"options,omitempty"`
}

// Form groups the descriptors of one form definition together with the page
// copy surrounding them.
type Form struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Fields      []FieldDescriptor `json:"fields" yaml:"fields"`
}

var (
	ErrFormIDMissing    = errors.New("model: form id is required")
	ErrFieldNameMissing = errors.New("model: field name is required")
)

// Validate checks the structural invariants of a form definition: a form id,
// named fields with declared kinds, and names unique within the form.
func (f Form) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return ErrFormIDMissing
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for idx, field := range f.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("field %d: %w", idx, ErrFieldNameMissing)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("model: field %q has undeclared kind %s", name, field.Kind)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model: duplicate field name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Field returns the descriptor with the given name.
func (f Form) Field(name string) (FieldDescriptor, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Names lists field names in declaration order.
func (f Form) Names() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}
