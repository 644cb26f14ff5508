package tui

import (
	"github.com/goliatone/go-intake/pkg/resolver"
	"github.com/goliatone/go-intake/pkg/validation"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithResolver sets the resolver that decides which prompt each field gets.
func WithResolver(res *resolver.Resolver) Option {
	return func(r *Renderer) {
		if res != nil {
			r.resolver = res
		}
	}
}

// WithEngine validates each answer inline; failing answers are re-prompted
// with the rule's message.
func WithEngine(engine *validation.Engine) Option {
	return func(r *Renderer) {
		r.engine = engine
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
