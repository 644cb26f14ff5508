package definition_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/definition"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

func TestPatientForm(t *testing.T) {
	form := definition.Patient()

	if form.ID != "patient" || form.Title != "Welcome 👋" || form.SubmitLabel != "Get Started" {
		t.Fatalf("unexpected form header %+v", form)
	}
	want := []model.FieldDescriptor{
		{
			Kind:        model.KindPlainText,
			Name:        "name",
			Label:       "Full name",
			Placeholder: "John Doe",
			Description: "This is your public display name.",
			Icon:        &model.IconReference{Src: "/assets/icons/user.svg", Alt: "User icon"},
		},
		{
			Kind:        model.KindPlainText,
			Name:        "email",
			Label:       "Email",
			Placeholder: "example@domain.com",
			Icon:        &model.IconReference{Src: "/assets/icons/email.svg", Alt: "Email icon"},
		},
		{
			Kind:        model.KindPhoneNumber,
			Name:        "phone",
			Label:       "Phone number",
			Placeholder: "(555) 123-4567",
		},
	}
	if diff := cmp.Diff(want, form.Fields); diff != "" {
		t.Fatalf("patient fields mismatch (-want +got):\n%s", diff)
	}

	def := definition.PatientDefinition()
	if diff := cmp.Diff([]string{"name", "email", "phone"}, def.Schema.Fields()); diff != "" {
		t.Fatalf("patient schema mismatch (-want +got):\n%s", diff)
	}
}

const appointmentYAML = `
id: appointment
title: Book a visit
fields:
  - kind: input
    name: name
    label: Name
    rules:
      required: true
      minLength: 2
      maxLength: 5
      message: Name is too long
  - kind: input
    name: email
    label: Email
    rules:
      email: true
  - kind: checkbox
    name: consent
    label: I agree
  - kind: datePicker
    name: visit
    label: Visit
    dateFormat: MM/dd/yyyy
    showTimeSelect: true
`

func TestLoadWithRules(t *testing.T) {
	def, err := definition.Load([]byte(appointmentYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := def.Form.Fields[3]; got.Kind != model.KindDatePicker || got.DateFormat != "MM/dd/yyyy" || !got.ShowTimeSelect {
		t.Fatalf("unexpected date field %+v", got)
	}

	record, err := model.NewRecord(def.Form.Fields, map[string]model.FieldValue{
		"name":  model.Text("Augusta"),
		"email": model.Text("not-an-email"),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	outcome := def.Engine().Validate(record)
	want := map[string]string{
		"name":  "Name is too long",
		"email": "Invalid Email",
	}
	if diff := cmp.Diff(want, outcome.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"unknown kind":   "id: x\nfields:\n  - kind: slider\n    name: a\n",
		"unknown key":    "id: x\ncolour: red\nfields: []\n",
		"duplicate name": "id: x\nfields:\n  - {kind: input, name: a}\n  - {kind: input, name: a}\n",
		"missing id":     "fields:\n  - {kind: input, name: a}\n",
		"bad pattern":    "id: x\nfields:\n  - kind: input\n    name: a\n    rules: {pattern: '('}\n",
		"bad bounds":     "id: x\nfields:\n  - kind: input\n    name: a\n    rules: {minLength: 5, maxLength: 2}\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := definition.LoadYAML([]byte(raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	if err := os.WriteFile(path, []byte(appointmentYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	def, err := definition.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if def.Form.ID != "appointment" {
		t.Fatalf("unexpected id %q", def.Form.ID)
	}

	if _, err := definition.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "definition: read") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestPatientDefinitionValidates(t *testing.T) {
	def := definition.PatientDefinition()
	record, err := model.NewRecord(def.Form.Fields, map[string]model.FieldValue{
		"name":  model.Text("Ada"),
		"email": model.Text("ada@example.com"),
		"phone": model.Text("+15551234567"),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if outcome := def.Engine().Validate(record); !outcome.Accepted() {
		t.Fatalf("expected acceptance, got %v", outcome.Errors())
	}
	if msg := validation.MessageName; msg == "" {
		t.Fatalf("patient messages must be defined")
	}
}
