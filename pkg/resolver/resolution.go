package resolver

import (
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
)

// Event is a user interaction captured by a presentation layer: the text
// content of a control, or the checked state of a checkbox.
type Event struct {
	Text    string
	Checked bool
}

// CaptureFunc turns an interaction into the stored value for a field.
type CaptureFunc func(Event) model.FieldValue

// DisplayHints govern non-semantic presentation of a control.
type DisplayHints struct {
	ShowLabel   bool
	Label       string
	Placeholder string
	Description string
	// Icon is nil when the descriptor carries no icon. Alt defaults to "".
	Icon     *model.IconReference
	Disabled bool
}

// Resolution is the rendering decision for one descriptor. The concrete
// variants are TextInput, PhoneInput, CheckboxInput, and Unhandled; the set
// is closed.
type Resolution interface {
	Descriptor() model.FieldDescriptor
	Hints() DisplayHints
	Capture(Event) model.FieldValue
	resolution()
}

type base struct {
	descriptor model.FieldDescriptor
	hints      DisplayHints
}

func (b base) Descriptor() model.FieldDescriptor { return b.descriptor }

func (b base) Hints() DisplayHints { return b.hints }

func (base) resolution() {}

// TextInput captures literal text.
type TextInput struct {
	base
}

func (TextInput) Capture(event Event) model.FieldValue {
	return model.Text(event.Text)
}

// CheckboxInput captures the checked state. The widget renders its own
// inline label so the label row is suppressed.
type CheckboxInput struct {
	base
}

func (CheckboxInput) Capture(event Event) model.FieldValue {
	return model.Bool(event.Checked)
}

// Unhandled marks kinds without a default rendering rule. Without a custom
// renderer it produces no output and captures nothing.
type Unhandled struct {
	base
	Custom *Custom
}

// Capture defers to the custom renderer when one is registered and yields
// Absent otherwise.
func (u Unhandled) Capture(event Event) model.FieldValue {
	if u.Custom != nil && u.Custom.Capture != nil {
		return u.Custom.Capture(event)
	}
	return model.Absent()
}

// Renders reports whether a presentation layer has anything to draw.
func (u Unhandled) Renders() bool {
	return u.Custom != nil && u.Custom.Render != nil
}

// Custom supplies rendering and capture for a kind without a default rule.
// Render returns a markup fragment for the field and its current value.
type Custom struct {
	Render  func(field model.FieldDescriptor, value model.FieldValue) (string, error)
	Capture CaptureFunc
}

func hintsFor(desc model.FieldDescriptor, showLabel bool) DisplayHints {
	hints := DisplayHints{
		ShowLabel:   showLabel && strings.TrimSpace(desc.Label) != "",
		Label:       desc.Label,
		Placeholder: desc.Placeholder,
		Description: desc.Description,
		Disabled:    desc.Disabled,
	}
	if desc.Icon != nil && strings.TrimSpace(desc.Icon.Src) != "" {
		icon := *desc.Icon
		hints.Icon = &icon
	}
	return hints
}
