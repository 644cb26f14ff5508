package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/resolver"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Renderer implements render.Renderer for terminal-driven sessions. Each
// renderable field becomes a prompt; the collected record is serialized as
// the render payload.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	resolver     *resolver.Resolver
	engine       *validation.Engine
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		resolver:     resolver.New(),
		theme:        Theme{ErrorPrefix: "✗ "},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render runs the prompt session and serializes the collected record.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	record, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(record)
}

// Collect prompts for every renderable field in declaration order and
// returns the captured record. Disabled fields keep their prefilled value;
// unhandled kinds are skipped and stay Absent.
func (r *Renderer) Collect(ctx context.Context, form model.Form, opts render.RenderOptions) (model.SubmissionRecord, error) {
	if ctx == nil {
		return model.SubmissionRecord{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.SubmissionRecord{}, err
	}
	if r.driver == nil {
		return model.SubmissionRecord{}, errors.New("tui: prompt driver is nil")
	}
	if err := form.Validate(); err != nil {
		return model.SubmissionRecord{}, fmt.Errorf("tui: %w", err)
	}

	if err := r.header(ctx, form, opts); err != nil {
		return model.SubmissionRecord{}, err
	}

	values := make(map[string]model.FieldValue, len(form.Fields))
	for _, res := range r.resolver.ResolveAll(form) {
		name := res.Descriptor().Name
		current := opts.ValueOf(name)
		if res.Hints().Disabled {
			values[name] = current
			continue
		}
		for _, message := range opts.Errors[name] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
				return model.SubmissionRecord{}, err
			}
		}

		value, err := r.promptField(ctx, res, current)
		if err != nil {
			return model.SubmissionRecord{}, err
		}
		values[name] = value
	}

	record, err := model.NewRecord(form.Fields, values)
	if err != nil {
		return model.SubmissionRecord{}, fmt.Errorf("tui: %w", err)
	}
	return record, nil
}

func (r *Renderer) header(ctx context.Context, form model.Form, opts render.RenderOptions) error {
	lines := []string{form.Title, form.Subtitle}
	if opts.Notice != "" {
		lines = append(lines, r.theme.InfoPrefix+opts.Notice)
	}
	for _, message := range opts.FormErrors {
		lines = append(lines, r.theme.ErrorPrefix+message)
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := r.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, res resolver.Resolution, current model.FieldValue) (model.FieldValue, error) {
	hints := res.Hints()

	switch field := res.(type) {
	case resolver.CheckboxInput:
		checked, _ := current.AsBool()
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(res),
			Default: checked,
			Help:    hints.Description,
		})
		if err != nil {
			return model.Absent(), err
		}
		return field.Capture(resolver.Event{Checked: answer}), nil

	case resolver.PhoneInput:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("%s (%s)", promptLabel(res), field.CallingCode),
			Default:   field.Display(current),
			Help:      helpText(hints),
			Validator: r.validator(res),
		})
		if err != nil {
			return model.Absent(), err
		}
		return field.Capture(resolver.Event{Text: answer}), nil

	case resolver.TextInput:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   promptLabel(res),
			Default:   current.String(),
			Help:      helpText(hints),
			Validator: r.validator(res),
		})
		if err != nil {
			return model.Absent(), err
		}
		return field.Capture(resolver.Event{Text: answer}), nil

	default:
		return current, nil
	}
}

// validator runs the field's rules against the captured answer so the
// prompt can show the message inline and ask again.
func (r *Renderer) validator(res resolver.Resolution) func(string) error {
	if r.engine == nil {
		return nil
	}
	name := res.Descriptor().Name
	return func(answer string) error {
		value := res.Capture(resolver.Event{Text: answer})
		if _, err := r.engine.ValidateField(name, value); err != nil {
			return errors.New(validation.MessageOf(err))
		}
		return nil
	}
}

func (r *Renderer) serialize(record model.SubmissionRecord) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		var builder strings.Builder
		for _, name := range record.Names() {
			value := record.Get(name)
			if value.IsAbsent() {
				continue
			}
			fmt.Fprintf(&builder, "%s: %s\n", name, value.String())
		}
		return []byte(builder.String()), nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("tui: encode record: %w", err)
	}
	return payload, nil
}

func promptLabel(res resolver.Resolution) string {
	if label := strings.TrimSpace(res.Descriptor().Label); label != "" {
		return label
	}
	return res.Descriptor().Name
}

func helpText(hints resolver.DisplayHints) string {
	if hints.Description != "" {
		return hints.Description
	}
	if hints.Placeholder != "" {
		return "e.g. " + hints.Placeholder
	}
	return ""
}
