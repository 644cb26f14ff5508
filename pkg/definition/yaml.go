package definition

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

//go:embed forms/*.yaml
var embedded embed.FS

// Definition pairs a form with the rules its submissions are checked
// against.
type Definition struct {
	Form   model.Form
	Schema *validation.Schema
}

// Engine builds a validation engine for the definition's schema.
func (d Definition) Engine() *validation.Engine {
	return validation.NewEngine(d.Schema)
}

// RuleSpec is the declarative form of a field's rule chain. Rules run in the
// order required, length, email, pattern. Message is reported for every
// failure of the field.
type RuleSpec struct {
	Required  bool   `yaml:"required,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty"`
	MaxLength *int   `yaml:"maxLength,omitempty"`
	Email     bool   `yaml:"email,omitempty"`
	Pattern   string `yaml:"pattern,omitempty"`
	Message   string `yaml:"message,omitempty"`
}

type document struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title,omitempty"`
	Subtitle    string          `yaml:"subtitle,omitempty"`
	SubmitLabel string          `yaml:"submitLabel,omitempty"`
	Fields      []documentField `yaml:"fields"`
}

type documentField struct {
	model.FieldDescriptor `yaml:",inline"`
	Rules                 *RuleSpec `yaml:"rules,omitempty"`
}

// Load parses a YAML definition. Unknown keys and kinds are rejected.
func Load(raw []byte) (Definition, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, errors.New("definition: document is empty")
		}
		return Definition{}, fmt.Errorf("definition: decode yaml: %w", err)
	}

	form := model.Form{
		ID:          doc.ID,
		Title:       doc.Title,
		Subtitle:    doc.Subtitle,
		SubmitLabel: doc.SubmitLabel,
		Fields:      make([]model.FieldDescriptor, 0, len(doc.Fields)),
	}
	schema := validation.NewSchema()
	for _, field := range doc.Fields {
		form.Fields = append(form.Fields, field.FieldDescriptor)
		if field.Rules == nil {
			continue
		}
		rules, err := field.Rules.build(field.Label)
		if err != nil {
			return Definition{}, fmt.Errorf("definition: field %q: %w", field.Name, err)
		}
		schema.Field(field.Name, rules...)
	}

	if err := form.Validate(); err != nil {
		return Definition{}, fmt.Errorf("definition: %w", err)
	}
	return Definition{Form: form, Schema: schema}, nil
}

// LoadYAML parses a YAML definition and returns only its form.
func LoadYAML(raw []byte) (model.Form, error) {
	def, err := Load(raw)
	if err != nil {
		return model.Form{}, err
	}
	return def.Form, nil
}

// LoadFile reads and parses a YAML definition from disk.
func LoadFile(path string) (Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Load(raw)
}

// Patient returns the embedded patient intake form.
func Patient() model.Form {
	return PatientDefinition().Form
}

// PatientDefinition pairs the embedded patient form with the patient rules.
func PatientDefinition() Definition {
	raw, err := embedded.ReadFile("forms/patient.yaml")
	if err != nil {
		panic(fmt.Sprintf("definition: embedded patient form: %v", err))
	}
	def, err := Load(raw)
	if err != nil {
		panic(fmt.Sprintf("definition: embedded patient form: %v", err))
	}
	def.Schema = validation.PatientSchema()
	return def
}

func (spec RuleSpec) build(label string) ([]validation.Rule, error) {
	message := spec.Message
	if message == "" {
		message = defaultMessage(label)
	}

	var rules []validation.Rule
	if spec.Required {
		rules = append(rules, validation.Required(message))
	}
	if spec.MinLength != nil || spec.MaxLength != nil {
		minimum, maximum := 0, math.MaxInt
		if spec.MinLength != nil {
			minimum = *spec.MinLength
		}
		if spec.MaxLength != nil {
			maximum = *spec.MaxLength
		}
		if minimum < 0 || maximum < minimum {
			return nil, fmt.Errorf("invalid length bounds [%d, %d]", minimum, maximum)
		}
		rules = append(rules, validation.LengthBetween(minimum, maximum, message))
	}
	if spec.Email {
		rules = append(rules, validation.Email(message))
	}
	if spec.Pattern != "" {
		expr, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern: %w", err)
		}
		rules = append(rules, validation.Pattern(expr, message))
	}
	return rules, nil
}

func defaultMessage(label string) string {
	if label == "" {
		return "Invalid value"
	}
	return "Invalid " + label
}
