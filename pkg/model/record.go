package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// SubmissionRecord maps every declared field name to its captured value.
// Records are only built through NewRecord so the key set always matches a
// form's declared fields.
type SubmissionRecord struct {
	order  []string
	values map[string]FieldValue
}

// NewRecord assembles a record for the declared fields. Missing names are
// stored as Absent; keys that are not declared are rejected. Text values
// destined for date pickers are parsed using DateLayout.
func NewRecord(fields []FieldDescriptor, values map[string]FieldValue) (SubmissionRecord, error) {
	record := SubmissionRecord{
		order:  make([]string, 0, len(fields)),
		values: make(map[string]FieldValue, len(fields)),
	}
	declared := make(map[string]FieldDescriptor, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			return SubmissionRecord{}, ErrFieldNameMissing
		}
		if _, dup := declared[field.Name]; dup {
			return SubmissionRecord{}, fmt.Errorf("model: duplicate field name %q", field.Name)
		}
		declared[field.Name] = field
		record.order = append(record.order, field.Name)
		record.values[field.Name] = Absent()
	}

	for name, value := range values {
		field, ok := declared[name]
		if !ok {
			return SubmissionRecord{}, fmt.Errorf("model: field %q is not declared", name)
		}
		coerced, err := coerceValue(field, value)
		if err != nil {
			return SubmissionRecord{}, err
		}
		record.values[name] = coerced
	}
	return record, nil
}

// RecordFromJSON decodes a JSON object into a record for the given form.
func RecordFromJSON(form Form, data []byte) (SubmissionRecord, error) {
	var values map[string]FieldValue
	if err := json.Unmarshal(data, &values); err != nil {
		return SubmissionRecord{}, fmt.Errorf("model: decode record: %w", err)
	}
	return NewRecord(form.Fields, values)
}

func coerceValue(field FieldDescriptor, value FieldValue) (FieldValue, error) {
	if field.Kind != KindDatePicker {
		return value, nil
	}
	text, ok := value.AsText()
	if !ok {
		return value, nil
	}
	if text == "" {
		return Absent(), nil
	}
	parsed, err := time.Parse(DateLayout, text)
	if err != nil {
		return FieldValue{}, fmt.Errorf("model: field %q: invalid date %q", field.Name, text)
	}
	return Date(parsed), nil
}

// Get returns the value for name, or Absent when the name is unknown.
func (r SubmissionRecord) Get(name string) FieldValue {
	return r.values[name]
}

// Has reports whether name is a declared field of the record.
func (r SubmissionRecord) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Names lists the declared names in form order.
func (r SubmissionRecord) Names() []string {
	return slices.Clone(r.order)
}

// Len is the number of declared fields.
func (r SubmissionRecord) Len() int {
	return len(r.order)
}

// With returns a copy of the record with name set to value. It fails for
// undeclared names.
func (r SubmissionRecord) With(name string, value FieldValue) (SubmissionRecord, error) {
	if !r.Has(name) {
		return SubmissionRecord{}, fmt.Errorf("model: field %q is not declared", name)
	}
	clone := SubmissionRecord{
		order:  slices.Clone(r.order),
		values: make(map[string]FieldValue, len(r.values)),
	}
	for key, existing := range r.values {
		clone.values[key] = existing
	}
	clone.values[name] = value
	return clone, nil
}

// Strings flattens the record to display strings, used to prefill controls.
func (r SubmissionRecord) Strings() map[string]string {
	out := make(map[string]string, len(r.values))
	for name, value := range r.values {
		if value.IsAbsent() {
			continue
		}
		out[name] = value.String()
	}
	return out
}

// Equal compares declared names, order, and values.
func (r SubmissionRecord) Equal(other SubmissionRecord) bool {
	if !slices.Equal(r.order, other.order) {
		return false
	}
	for _, name := range r.order {
		if !r.values[name].Equal(other.values[name]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as an object with keys in form order.
func (r SubmissionRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, name := range r.order {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
