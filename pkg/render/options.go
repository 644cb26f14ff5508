package render

import "github.com/goliatone/go-intake/pkg/model"

// RenderOptions describe per-request state a renderer folds into its output
// without mutating the form definition.
type RenderOptions struct {
	// Values pre-populates controls. Nil renders empty controls.
	Values *model.SubmissionRecord
	// Errors holds per-field messages, rendered beneath each field.
	Errors map[string][]string
	// FormErrors are messages not tied to a field, such as a failed
	// submission.
	FormErrors []string
	// Notice is an informational banner shown above the fields.
	Notice string
	// Submitting mirrors the caller-owned in-flight flag. Renderers disable
	// the submit control and show the loading state while it is set.
	Submitting bool
	// Hidden carries extra inputs such as CSRF tokens.
	Hidden []HiddenField
	// Action and Method override the form target. Empty values post back to
	// the current URL.
	Action string
	Method string
}

// ValueOf returns the prefilled value for name, or Absent.
func (o RenderOptions) ValueOf(name string) model.FieldValue {
	if o.Values == nil {
		return model.Absent()
	}
	return o.Values.Get(name)
}
