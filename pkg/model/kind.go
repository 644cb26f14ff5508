package model

import (
	"fmt"
	"strings"
)

// FieldKind is the closed set of inputs a form field can represent.
type FieldKind int

const (
	KindPlainText FieldKind = iota + 1
	KindMultilineText
	KindPhoneNumber
	KindCheckbox
	KindDatePicker
	KindSingleSelect
	KindCustomSkeleton
)

var kindNames = map[FieldKind]string{
	KindPlainText:      "input",
	KindMultilineText:  "textarea",
	KindPhoneNumber:    "phoneInput",
	KindCheckbox:       "checkbox",
	KindDatePicker:     "datePicker",
	KindSingleSelect:   "select",
	KindCustomSkeleton: "skeleton",
}

// Kinds returns every declared kind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindPlainText,
		KindMultilineText,
		KindPhoneNumber,
		KindCheckbox,
		KindDatePicker,
		KindSingleSelect,
		KindCustomSkeleton,
	}
}

// Valid reports whether k is one of the declared kinds.
func (k FieldKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k FieldKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// ParseFieldKind accepts the wire names ("input", "phoneInput", ...) case
// insensitively.
func ParseFieldKind(raw string) (FieldKind, error) {
	trimmed := strings.TrimSpace(raw)
	for kind, name := range kindNames {
		if strings.EqualFold(name, trimmed) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("model: unknown field kind %q", raw)
}

// MarshalText encodes the kind using its wire name.
func (k FieldKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("model: cannot encode field kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name. YAML and JSON decoders both route
// through here.
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
