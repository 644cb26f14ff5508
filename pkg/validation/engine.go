package validation

import (
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
)

// Schema binds rule chains to field names. Fields without rules always pass.
type Schema struct {
	order []string
	rules map[string][]Rule
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{rules: make(map[string][]Rule)}
}

// Field appends rules to name and returns the schema for chaining.
func (s *Schema) Field(name string, rules ...Rule) *Schema {
	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}
	if _, exists := s.rules[name]; !exists {
		s.order = append(s.order, name)
	}
	s.rules[name] = append(s.rules[name], rules...)
	return s
}

// Fields lists the names that carry rules, in registration order.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Outcome is either Accepted with the coerced record or Rejected with the
// first failing message per field.
type Outcome struct {
	accepted bool
	record   model.SubmissionRecord
	errors   map[string]string
}

// Accepted wraps a record that passed every rule.
func Accepted(record model.SubmissionRecord) Outcome {
	return Outcome{accepted: true, record: record}
}

// Rejected wraps per-field messages.
func Rejected(errors map[string]string) Outcome {
	return Outcome{errors: maps.Clone(errors)}
}

func (o Outcome) Accepted() bool { return o.accepted }

// Record returns the coerced record when the outcome is Accepted.
func (o Outcome) Record() (model.SubmissionRecord, bool) {
	if !o.accepted {
		return model.SubmissionRecord{}, false
	}
	return o.record, true
}

// Errors returns a copy of the rejection mapping. Accepted outcomes return
// nil.
func (o Outcome) Errors() map[string]string {
	if o.accepted || len(o.errors) == 0 {
		return nil
	}
	return maps.Clone(o.errors)
}

// Message returns the rejection message for a field, if any.
func (o Outcome) Message(name string) (string, bool) {
	msg, ok := o.errors[name]
	return msg, ok
}

// Equal compares variants, records, and messages.
func (o Outcome) Equal(other Outcome) bool {
	if o.accepted != other.accepted {
		return false
	}
	if o.accepted {
		return o.record.Equal(other.record)
	}
	return maps.Equal(o.errors, other.errors)
}

// Engine applies a Schema to submission records.
type Engine struct {
	schema *Schema
}

// NewEngine builds an engine for schema. A nil schema accepts everything.
func NewEngine(schema *Schema) *Engine {
	if schema == nil {
		schema = NewSchema()
	}
	return &Engine{schema: schema}
}

// Validate evaluates every field's rules independently and collects all
// failures. It never returns an error: rejection is part of the Outcome.
// Names bound in the schema but missing from the record are evaluated
// against Absent.
func (e *Engine) Validate(record model.SubmissionRecord) Outcome {
	failures := make(map[string]string)
	coerced := record

	for _, name := range e.schema.order {
		rule := Chain(e.schema.rules[name]...)
		value, err := rule(record.Get(name))
		if err != nil {
			failures[name] = MessageOf(err)
			continue
		}
		if !record.Has(name) || value.Equal(record.Get(name)) {
			continue
		}
		updated, withErr := coerced.With(name, value)
		if withErr != nil {
			failures[name] = withErr.Error()
			continue
		}
		coerced = updated
	}

	if len(failures) > 0 {
		return Rejected(failures)
	}
	return Accepted(coerced)
}

// ValidateField runs the rules bound to name against a single value. Names
// without rules pass unchanged.
func (e *Engine) ValidateField(name string, value model.FieldValue) (model.FieldValue, error) {
	rules, ok := e.schema.rules[name]
	if !ok {
		return value, nil
	}
	return Chain(rules...)(value)
}
