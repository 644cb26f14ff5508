// Package template defines the template seam renderers depend on, so the
// vanilla renderer can be exercised with stub engines in tests and callers
// can swap in their own template bundles.
package template
