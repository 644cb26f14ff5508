package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind tags the variant held by a FieldValue.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueBool
	ValueDate
)

// DateLayout is the encoding used for date values on the wire.
const DateLayout = "2006-01-02"

// FieldValue is the raw captured value for a field. The zero value is
// Absent.
type FieldValue struct {
	kind ValueKind
	text string
	flag bool
	date time.Time
}

// Absent marks a declared field with no captured value.
func Absent() FieldValue { return FieldValue{} }

// Text wraps string content from text-like controls.
func Text(value string) FieldValue { return FieldValue{kind: ValueText, text: value} }

// Bool wraps a checkbox state.
func Bool(value bool) FieldValue { return FieldValue{kind: ValueBool, flag: value} }

// Date wraps a calendar date. The time component is dropped.
func Date(value time.Time) FieldValue {
	y, m, d := value.Date()
	return FieldValue{kind: ValueDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v FieldValue) Kind() ValueKind { return v.kind }

func (v FieldValue) IsAbsent() bool { return v.kind == ValueAbsent }

// AsText returns the string content and whether the value is textual.
func (v FieldValue) AsText() (string, bool) {
	if v.kind != ValueText {
		return "", false
	}
	return v.text, true
}

// AsBool returns the checkbox state and whether the value is boolean.
func (v FieldValue) AsBool() (bool, bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.flag, true
}

// AsDate returns the date and whether the value is a date.
func (v FieldValue) AsDate() (time.Time, bool) {
	if v.kind != ValueDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String renders the value the way a control would display it. Absent
// values render as the empty string.
func (v FieldValue) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueBool:
		if v.flag {
			return "true"
		}
		return "false"
	case ValueDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether both values hold the same variant and content.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == other.text
	case ValueBool:
		return v.flag == other.flag
	case ValueDate:
		return v.date.Equal(other.date)
	default:
		return true
	}
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueDate:
		return json.Marshal(v.date.Format(DateLayout))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, strings, and booleans. Strings always decode
// as text; date coercion needs the field kind and happens in NewRecord.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case nil:
		*v = Absent()
	case string:
		*v = Text(typed)
	case bool:
		*v = Bool(typed)
	default:
		return fmt.Errorf("model: unsupported field value %s", string(data))
	}
	return nil
}
