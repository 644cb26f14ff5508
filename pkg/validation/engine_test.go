package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

var patientFields = []model.FieldDescriptor{
	{Kind: model.KindPlainText, Name: validation.FieldName},
	{Kind: model.KindPlainText, Name: validation.FieldEmail},
	{Kind: model.KindPhoneNumber, Name: validation.FieldPhone},
}

func mustRecord(t *testing.T, name, email, phone string) model.SubmissionRecord {
	t.Helper()
	record, err := model.NewRecord(patientFields, map[string]model.FieldValue{
		validation.FieldName:  model.Text(name),
		validation.FieldEmail: model.Text(email),
		validation.FieldPhone: model.Text(phone),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return record
}

func TestPatientEngineAcceptsValidRecord(t *testing.T) {
	engine := validation.NewPatientEngine()

	outcome := engine.Validate(mustRecord(t, "John Doe", "john@example.com", "+15551234567"))
	if !outcome.Accepted() {
		t.Fatalf("expected accepted outcome, got errors %v", outcome.Errors())
	}

	patient, err := validation.PatientFromOutcome(outcome)
	if err != nil {
		t.Fatalf("patient from outcome: %v", err)
	}
	want := validation.Patient{Name: "John Doe", Email: "john@example.com", Phone: "+15551234567"}
	if diff := cmp.Diff(want, patient); diff != "" {
		t.Fatalf("patient mismatch (-want +got):\n%s", diff)
	}
}

func TestPatientEngineRejectsShortName(t *testing.T) {
	engine := validation.NewPatientEngine()

	outcome := engine.Validate(mustRecord(t, "J", "john@example.com", "+15551234567"))
	if outcome.Accepted() {
		t.Fatalf("expected rejection")
	}
	want := map[string]string{validation.FieldName: validation.MessageName}
	if diff := cmp.Diff(want, outcome.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if _, err := validation.PatientFromOutcome(outcome); !errors.Is(err, validation.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestPatientEngineCollectsEveryFailure(t *testing.T) {
	engine := validation.NewPatientEngine()

	outcome := engine.Validate(mustRecord(t, "a", "bad", "123"))
	want := map[string]string{
		validation.FieldName:  validation.MessageName,
		validation.FieldEmail: validation.MessageEmail,
		validation.FieldPhone: validation.MessagePhone,
	}
	if diff := cmp.Diff(want, outcome.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestPatientEngineRejectsAbsentValues(t *testing.T) {
	record, err := model.NewRecord(patientFields, nil)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	outcome := validation.NewPatientEngine().Validate(record)
	if got := len(outcome.Errors()); got != 3 {
		t.Fatalf("expected three failures for an empty record, got %v", outcome.Errors())
	}
}

func TestEmailRule(t *testing.T) {
	rule := validation.Email(validation.MessageEmail)
	cases := []struct {
		input string
		ok    bool
	}{
		{"a@b.co", true},
		{"john@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"bad", false},
		{"a@b", false},
		{"a@b.c", false},
		{"john@example.c0m", false},
		{`"john doe"@example.com`, false},
		{`"john"@example.com`, false},
		{"@example.com", false},
		{"john@.com", false},
		{" john@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := rule(model.Text(tc.input))
		if tc.ok && err != nil {
			t.Errorf("expected %q to pass, got %v", tc.input, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("expected %q to fail", tc.input)
				continue
			}
			if got := validation.MessageOf(err); got != validation.MessageEmail {
				t.Errorf("unexpected message for %q: %q", tc.input, got)
			}
		}
	}
}

func TestPhoneRule(t *testing.T) {
	rule := validation.Pattern(validation.PhonePattern, validation.MessagePhone)
	cases := []struct {
		input string
		ok    bool
	}{
		{"+15551234567", true},
		{"5551234567", true},
		{"+12345678901234", true},
		{"123", false},
		{"+1555123456789012", false},
		{"555-123-4567", false},
		{"+1 555 123 4567", false},
		{"++15551234567", false},
	}
	for _, tc := range cases {
		_, err := rule(model.Text(tc.input))
		if tc.ok != (err == nil) {
			t.Errorf("phone %q: expected ok=%v, got err=%v", tc.input, tc.ok, err)
		}
		if err != nil && validation.MessageOf(err) != validation.MessagePhone {
			t.Errorf("phone %q: unexpected message %q", tc.input, validation.MessageOf(err))
		}
	}
}

func TestRulesRejectNonTextValues(t *testing.T) {
	rules := map[string]validation.Rule{
		"length":  validation.LengthBetween(2, 20, "length"),
		"email":   validation.Email("email"),
		"pattern": validation.Pattern(validation.PhonePattern, "pattern"),
	}
	for name, rule := range rules {
		if _, err := rule(model.Bool(true)); err == nil {
			t.Errorf("%s: expected boolean value to fail", name)
		}
		if _, err := rule(model.Absent()); err == nil {
			t.Errorf("%s: expected absent value to fail", name)
		}
	}
}

func TestFieldsWithoutRulesPass(t *testing.T) {
	fields := append([]model.FieldDescriptor{}, patientFields...)
	fields = append(fields, model.FieldDescriptor{Kind: model.KindCheckbox, Name: "consent"})
	record, err := model.NewRecord(fields, map[string]model.FieldValue{
		validation.FieldName:  model.Text("Ada"),
		validation.FieldEmail: model.Text("ada@example.com"),
		validation.FieldPhone: model.Text("5551234567"),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	outcome := validation.NewPatientEngine().Validate(record)
	if !outcome.Accepted() {
		t.Fatalf("expected acceptance, got %v", outcome.Errors())
	}
}

func TestChainStopsAtFirstFailure(t *testing.T) {
	calls := 0
	counting := func(value model.FieldValue) (model.FieldValue, error) {
		calls++
		return value, nil
	}
	schema := validation.NewSchema().Field("code",
		validation.Required("required"),
		validation.LengthBetween(3, 3, "three characters"),
		counting,
	)
	fields := []model.FieldDescriptor{{Kind: model.KindPlainText, Name: "code"}}

	record, err := model.NewRecord(fields, map[string]model.FieldValue{"code": model.Text("")})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	outcome := validation.NewEngine(schema).Validate(record)
	if msg, _ := outcome.Message("code"); msg != "required" {
		t.Fatalf("expected first rule message, got %q", msg)
	}
	if calls != 0 {
		t.Fatalf("expected later rules to be skipped, got %d calls", calls)
	}
}

func TestEngineKeepsNormalisedValues(t *testing.T) {
	upper := func(value model.FieldValue) (model.FieldValue, error) {
		text, _ := value.AsText()
		return model.Text(text + "!"), nil
	}
	schema := validation.NewSchema().Field("code", upper)
	fields := []model.FieldDescriptor{{Kind: model.KindPlainText, Name: "code"}}
	record, err := model.NewRecord(fields, map[string]model.FieldValue{"code": model.Text("abc")})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	outcome := validation.NewEngine(schema).Validate(record)
	accepted, ok := outcome.Record()
	if !ok {
		t.Fatalf("expected accepted outcome")
	}
	if got, _ := accepted.Get("code").AsText(); got != "abc!" {
		t.Fatalf("expected coerced value, got %q", got)
	}
	if got, _ := record.Get("code").AsText(); got != "abc" {
		t.Fatalf("expected input record to stay untouched, got %q", got)
	}
}

func TestValidateField(t *testing.T) {
	engine := validation.NewPatientEngine()

	if _, err := engine.ValidateField(validation.FieldName, model.Text("A")); validation.MessageOf(err) != validation.MessageName {
		t.Fatalf("expected name message, got %v", err)
	}
	if _, err := engine.ValidateField(validation.FieldEmail, model.Text("ada@example.com")); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
	value, err := engine.ValidateField("unbound", model.Bool(true))
	if err != nil || !value.Equal(model.Bool(true)) {
		t.Fatalf("expected unbound field to pass unchanged, got %v %v", value, err)
	}
}
