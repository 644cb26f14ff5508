package resolver

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/goliatone/go-intake/pkg/model"
)

// PhoneInput captures international phone numbers. The control is seeded
// with a default country and shows its calling-code prefix.
type PhoneInput struct {
	base
	Country     string
	CallingCode string
}

func newPhoneInput(desc model.FieldDescriptor, hints DisplayHints, country string) PhoneInput {
	code := phonenumbers.GetCountryCodeForRegion(country)
	prefix := ""
	if code > 0 {
		prefix = "+" + strconv.Itoa(code)
	}
	return PhoneInput{
		base:        base{descriptor: desc, hints: hints},
		Country:     country,
		CallingCode: prefix,
	}
}

// Capture replaces the stored value with the normalised E.164 form of the
// control's content. Input that cannot be a phone number is stored trimmed
// so validation reports it; empty input is Absent.
func (p PhoneInput) Capture(event Event) model.FieldValue {
	trimmed := strings.TrimSpace(event.Text)
	if trimmed == "" {
		return model.Absent()
	}
	return model.Text(NormalizePhone(trimmed, p.Country))
}

// Display formats a stored value for the control, falling back to the raw
// text when it does not parse.
func (p PhoneInput) Display(value model.FieldValue) string {
	text, ok := value.AsText()
	if !ok || text == "" {
		return ""
	}
	num, err := phonenumbers.Parse(text, p.Country)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return text
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

// NormalizePhone returns raw in E.164 form when it is a possible number for
// region, and raw unchanged otherwise.
func NormalizePhone(raw, region string) string {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
