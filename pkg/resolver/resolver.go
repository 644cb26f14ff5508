// Package resolver maps field descriptors to input behaviour: which control
// a presentation layer draws and how an interaction becomes a stored value.
// Resolution is pure and never fails; kinds without a rendering rule resolve
// to Unhandled.
package resolver

import (
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
)

// DefaultCountry is the region used to interpret national phone numbers.
const DefaultCountry = "US"

// Option configures a Resolver.
type Option func(*Resolver)

// WithDefaultCountry overrides the phone region (ISO 3166-1 alpha-2).
func WithDefaultCountry(region string) Option {
	return func(r *Resolver) {
		if trimmed := strings.ToUpper(strings.TrimSpace(region)); trimmed != "" {
			r.country = trimmed
		}
	}
}

// WithCustom registers a renderer for a kind that has no default rule.
// Registrations for kinds with a default rule are ignored.
func WithCustom(kind model.FieldKind, custom Custom) Option {
	return func(r *Resolver) {
		if r.custom == nil {
			r.custom = make(map[model.FieldKind]*Custom)
		}
		c := custom
		r.custom[kind] = &c
	}
}

// Resolver holds the per-form resolution context. It is safe for concurrent
// use once constructed.
type Resolver struct {
	country string
	custom  map[model.FieldKind]*Custom
}

// New constructs a Resolver.
func New(options ...Option) *Resolver {
	r := &Resolver{country: DefaultCountry}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Country reports the phone region in use.
func (r *Resolver) Country() string {
	return r.country
}

// Resolve produces the rendering decision for desc.
func (r *Resolver) Resolve(desc model.FieldDescriptor) Resolution {
	switch desc.Kind {
	case model.KindPlainText:
		return TextInput{base: base{descriptor: desc, hints: hintsFor(desc, true)}}
	case model.KindPhoneNumber:
		hints := hintsFor(desc, true)
		hints.Icon = nil
		return newPhoneInput(desc, hints, r.country)
	case model.KindCheckbox:
		hints := hintsFor(desc, false)
		hints.Icon = nil
		return CheckboxInput{base: base{descriptor: desc, hints: hints}}
	case model.KindMultilineText, model.KindDatePicker, model.KindSingleSelect, model.KindCustomSkeleton:
		return r.unhandled(desc)
	default:
		return r.unhandled(desc)
	}
}

// ResolveAll resolves every field of form in order.
func (r *Resolver) ResolveAll(form model.Form) []Resolution {
	out := make([]Resolution, 0, len(form.Fields))
	for _, field := range form.Fields {
		out = append(out, r.Resolve(field))
	}
	return out
}

// Capture builds a submission record for form from raw events keyed by
// field name. Fields without an event capture the zero Event.
func (r *Resolver) Capture(form model.Form, events map[string]Event) (model.SubmissionRecord, error) {
	values := make(map[string]model.FieldValue, len(form.Fields))
	for _, resolution := range r.ResolveAll(form) {
		name := resolution.Descriptor().Name
		event, ok := events[name]
		if !ok {
			if _, isCheckbox := resolution.(CheckboxInput); !isCheckbox {
				continue
			}
		}
		values[name] = resolution.Capture(event)
	}
	return model.NewRecord(form.Fields, values)
}

func (r *Resolver) unhandled(desc model.FieldDescriptor) Unhandled {
	return Unhandled{
		base:   base{descriptor: desc, hints: hintsFor(desc, true)},
		Custom: r.custom[desc.Kind],
	}
}
