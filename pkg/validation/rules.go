package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-intake/pkg/model"
)

// Rule checks a single field value. It returns the (possibly normalised)
// value on success, or an error whose text is the user-facing message. Rules
// never look at other fields.
type Rule func(value model.FieldValue) (model.FieldValue, error)

// Violation is the error returned by a failing rule.
type Violation struct {
	Message string
}

func (v Violation) Error() string { return v.Message }

// Fail builds a Violation for message.
func Fail(message string) error {
	return Violation{Message: message}
}

// MessageOf extracts the user-facing message from a rule error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var violation Violation
	if errors.As(err, &violation) {
		return violation.Message
	}
	return err.Error()
}

var validate = validator.New()

// Required rejects absent values and empty text.
func Required(message string) Rule {
	return func(value model.FieldValue) (model.FieldValue, error) {
		if value.IsAbsent() {
			return value, Fail(message)
		}
		if text, ok := value.AsText(); ok && text == "" {
			return value, Fail(message)
		}
		return value, nil
	}
}

// LengthBetween accepts text whose character count falls within [min, max].
// Characters are counted as runes.
func LengthBetween(min, max int, message string) Rule {
	return func(value model.FieldValue) (model.FieldValue, error) {
		text, ok := value.AsText()
		if !ok {
			return value, Fail(message)
		}
		count := utf8.RuneCountInString(text)
		if count < min || count > max {
			return value, Fail(message)
		}
		return value, nil
	}
}

// Email accepts addresses matching the standard local-part@domain grammar
// with an unquoted local part and a dotted domain whose last label is at
// least two letters.
func Email(message string) Rule {
	return func(value model.FieldValue) (model.FieldValue, error) {
		text, ok := value.AsText()
		if !ok || !isEmail(text) {
			return value, Fail(message)
		}
		return value, nil
	}
}

func isEmail(text string) bool {
	if text == "" || strings.TrimSpace(text) != text {
		return false
	}
	if err := validate.Var(text, "required,email"); err != nil {
		return false
	}
	at := strings.LastIndex(text, "@")
	if at <= 0 {
		return false
	}
	local, domain := text[:at], text[at+1:]
	if strings.ContainsAny(local, `" `) {
		return false
	}
	dot := strings.Index(domain, ".")
	if dot <= 0 {
		return false
	}
	return topLevelDomain.MatchString(domain[strings.LastIndex(domain, ".")+1:])
}

var topLevelDomain = regexp.MustCompile(`^[A-Za-z]{2,}$`)

// Pattern accepts text matching expr in full. Callers supply anchored
// expressions.
func Pattern(expr *regexp.Regexp, message string) Rule {
	return func(value model.FieldValue) (model.FieldValue, error) {
		text, ok := value.AsText()
		if !ok || !expr.MatchString(text) {
			return value, Fail(message)
		}
		return value, nil
	}
}

// Chain runs rules in order and stops at the first failure.
func Chain(rules ...Rule) Rule {
	return func(value model.FieldValue) (model.FieldValue, error) {
		current := value
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			next, err := rule(current)
			if err != nil {
				return value, err
			}
			current = next
		}
		return current, nil
	}
}
