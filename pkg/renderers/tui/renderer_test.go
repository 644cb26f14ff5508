package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	inputConfigs []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
	inputErr     error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func intakeForm() model.Form {
	return model.Form{
		ID:       "patient",
		Title:    "Welcome",
		Subtitle: "Schedule your first appointment",
		Fields: []model.FieldDescriptor{
			{Kind: model.KindPlainText, Name: "name", Label: "Full name", Placeholder: "John Doe"},
			{Kind: model.KindPlainText, Name: "email", Label: "Email"},
			{Kind: model.KindPhoneNumber, Name: "phone", Label: "Phone number"},
			{Kind: model.KindCheckbox, Name: "consent", Label: "I consent"},
			{Kind: model.KindMultilineText, Name: "notes", Label: "Notes"},
		},
	}
}

func TestRenderer_CollectsRecord(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Ada Lovelace", "ada@example.com", "(555) 123-4567"},
		confirm: []bool{true},
	}
	r, err := New(WithPromptDriver(driver), WithEngine(validation.NewPatientEngine()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), intakeForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"name":"Ada Lovelace","email":"ada@example.com","phone":"+15551234567","consent":true,"notes":null}`
	if string(out) != want {
		t.Fatalf("unexpected payload\nwant %s\ngot  %s", want, out)
	}
	if diff := cmp.Diff([]string{"Welcome", "Schedule your first appointment"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if got := driver.inputConfigs[2].Message; got != "Phone number (+1)" {
		t.Fatalf("unexpected phone prompt %q", got)
	}
	if got := driver.inputConfigs[0].Help; got != "e.g. John Doe" {
		t.Fatalf("unexpected help %q", got)
	}
}

func TestRenderer_InlineValidation(t *testing.T) {
	driver := &stubDriver{inputs: []string{"A"}}
	r, err := New(WithPromptDriver(driver), WithEngine(validation.NewPatientEngine()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = r.Collect(context.Background(), intakeForm(), render.RenderOptions{})
	if err == nil || err.Error() != validation.MessageName {
		t.Fatalf("expected name rule message, got %v", err)
	}
}

func TestRenderer_PrefillsAndErrors(t *testing.T) {
	form := intakeForm()
	form.Fields[1].Disabled = true
	prefill, err := model.NewRecord(form.Fields, map[string]model.FieldValue{
		"name":  model.Text("Ada"),
		"email": model.Text("locked@example.com"),
		"phone": model.Text("+15551234567"),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	driver := &stubDriver{inputs: []string{"Ada", "+15551234567"}, confirm: []bool{false}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	record, err := r.Collect(context.Background(), form, render.RenderOptions{
		Values:     &prefill,
		Errors:     map[string][]string{"name": {"Name taken"}},
		FormErrors: []string{"Something went wrong"},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if got := driver.inputConfigs[0].Default; got != "Ada" {
		t.Fatalf("expected prefilled default, got %q", got)
	}
	if got := driver.inputConfigs[1].Default; got != "+1 555-123-4567" {
		t.Fatalf("expected formatted phone default, got %q", got)
	}
	if got, _ := record.Get("email").AsText(); got != "locked@example.com" {
		t.Fatalf("disabled field should keep its value, got %q", got)
	}
	if got, _ := record.Get("consent").AsBool(); got {
		t.Fatalf("expected consent false")
	}
	for _, want := range []string{"! Something went wrong", "! Name taken"} {
		found := false
		for _, msg := range driver.infoMessages {
			if msg == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected info message %q in %v", want, driver.infoMessages)
		}
	}
}

func TestRenderer_PrettyOutput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ada", "", ""}, confirm: []bool{true}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if !strings.HasPrefix(r.ContentType(), "text/plain") {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), intakeForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "name: Ada\nemail: \nconsent: true\n"
	if string(out) != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_Aborts(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), intakeForm(), render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected abort, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, intakeForm(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
