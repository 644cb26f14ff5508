// Package model defines the declarative form types shared by the resolver,
// the validation engine, and the renderers. A FieldDescriptor describes one
// input; a SubmissionRecord holds the values captured for a complete set of
// descriptors at submit time. Descriptors are built once per form definition
// and treated as read-only afterwards.
package model
