package validation

import (
	"errors"
	"regexp"

	"github.com/goliatone/go-intake/pkg/model"
)

// Messages reported by the patient intake schema.
const (
	MessageName  = "Name must be between 2 and 20 characters."
	MessageEmail = "Invalid email address"
	MessagePhone = "Invalid phone number"
)

// Field names used by the patient intake form.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// PhonePattern is an optional leading plus followed by 10 to 14 digits.
var PhonePattern = regexp.MustCompile(`^\+?[0-9]{10,14}$`)

// ErrRejected is returned when a typed record is requested from a rejected
// outcome.
var ErrRejected = errors.New("validation: outcome was rejected")

// Patient is the typed shape of an accepted intake record. Phone is
// guaranteed to match PhonePattern.
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PatientSchema returns the fixed name/email/phone rule set.
func PatientSchema() *Schema {
	return NewSchema().
		Field(FieldName, LengthBetween(2, 20, MessageName)).
		Field(FieldEmail, Email(MessageEmail)).
		Field(FieldPhone, Pattern(PhonePattern, MessagePhone))
}

// NewPatientEngine is NewEngine(PatientSchema()).
func NewPatientEngine() *Engine {
	return NewEngine(PatientSchema())
}

// PatientFromOutcome converts an accepted outcome into a Patient.
func PatientFromOutcome(outcome Outcome) (Patient, error) {
	record, ok := outcome.Record()
	if !ok {
		return Patient{}, ErrRejected
	}
	return PatientFromRecord(record), nil
}

// PatientFromRecord copies the text values of the patient fields. Callers
// are expected to have validated the record first.
func PatientFromRecord(record model.SubmissionRecord) Patient {
	name, _ := record.Get(FieldName).AsText()
	email, _ := record.Get(FieldEmail).AsText()
	phone, _ := record.Get(FieldPhone).AsText()
	return Patient{Name: name, Email: email, Phone: phone}
}

// PatientView returns the typed patient for records declaring the name,
// email, and phone fields. Other forms report false.
func PatientView(record model.SubmissionRecord) (Patient, bool) {
	for _, name := range []string{FieldName, FieldEmail, FieldPhone} {
		if !record.Has(name) {
			return Patient{}, false
		}
	}
	return PatientFromRecord(record), true
}
