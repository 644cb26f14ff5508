package definition

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Vendor extensions recognised on request body properties and operations.
const (
	ExtensionKind        = "x-intake-kind"
	ExtensionOrder       = "x-intake-order"
	ExtensionMessage     = "x-intake-message"
	ExtensionPlaceholder = "x-intake-placeholder"
	ExtensionSubmitLabel = "x-intake-submit-label"
)

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("definition: operation not found")

// Endpoint identifies the operation a derived form submits to.
type Endpoint struct {
	OperationID string
	Method      string
	Path        string
}

// URL joins the endpoint path onto base.
func (e Endpoint) URL(base string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("definition: parse base url: %w", err)
	}
	return parsed.JoinPath(e.Path).String(), nil
}

// FromOpenAPI derives a form and its rules from the request body of
// operationID. Properties are ordered by x-intake-order, then by name.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (model.Form, *validation.Schema, Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return model.Form{}, nil, Endpoint{}, err
	}
	if len(raw) == 0 {
		return model.Form{}, nil, Endpoint{}, errors.New("definition: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.Form{}, nil, Endpoint{}, fmt.Errorf("definition: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return model.Form{}, nil, Endpoint{}, fmt.Errorf("definition: validate openapi document: %w", err)
	}

	operation, endpoint, ok := findOperation(doc, operationID)
	if !ok {
		return model.Form{}, nil, Endpoint{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return model.Form{}, nil, Endpoint{}, fmt.Errorf("definition: operation %q has no object request body", operationID)
	}

	form := model.Form{
		ID:          operationID,
		Title:       operation.Summary,
		Subtitle:    operation.Description,
		SubmitLabel: stringExtension(operation.Extensions, ExtensionSubmitLabel),
	}
	schema := validation.NewSchema()
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name].Value
		if prop == nil {
			return model.Form{}, nil, Endpoint{}, fmt.Errorf("definition: property %q is unresolved", name)
		}
		field, err := fieldFromSchema(name, prop)
		if err != nil {
			return model.Form{}, nil, Endpoint{}, err
		}
		form.Fields = append(form.Fields, field)

		rules, err := rulesFromSchema(field, prop, required[name])
		if err != nil {
			return model.Form{}, nil, Endpoint{}, err
		}
		if len(rules) > 0 {
			schema.Field(name, rules...)
		}
	}

	if err := form.Validate(); err != nil {
		return model.Form{}, nil, Endpoint{}, fmt.Errorf("definition: %w", err)
	}
	return form, schema, endpoint, nil
}

func findOperation(doc *openapi3.T, operationID string) (*openapi3.Operation, Endpoint, bool) {
	if doc.Paths == nil {
		return nil, Endpoint{}, false
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation, Endpoint{
					OperationID: operationID,
					Method:      strings.ToUpper(method),
					Path:        path,
				}, true
			}
		}
	}
	return nil, Endpoint{}, false
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		if ref := props[name]; ref != nil && ref.Value != nil {
			if value, ok := numberExtension(ref.Value.Extensions, ExtensionOrder); ok {
				return value
			}
		}
		return math.MaxFloat64
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func fieldFromSchema(name string, prop *openapi3.Schema) (model.FieldDescriptor, error) {
	field := model.FieldDescriptor{
		Name:        name,
		Label:       prop.Title,
		Description: prop.Description,
		Placeholder: stringExtension(prop.Extensions, ExtensionPlaceholder),
		Disabled:    prop.ReadOnly,
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}
	if field.Placeholder == "" {
		if example, ok := prop.Example.(string); ok {
			field.Placeholder = example
		}
	}

	if raw := stringExtension(prop.Extensions, ExtensionKind); raw != "" {
		kind, err := model.ParseFieldKind(raw)
		if err != nil {
			return model.FieldDescriptor{}, fmt.Errorf("definition: property %q: %w", name, err)
		}
		field.Kind = kind
	} else {
		kind, err := kindFromSchema(prop)
		if err != nil {
			return model.FieldDescriptor{}, fmt.Errorf("definition: property %q: %w", name, err)
		}
		field.Kind = kind
	}

	if field.Kind == model.KindSingleSelect {
		for _, value := range prop.Enum {
			text := fmt.Sprint(value)
			field.Options = append(field.Options, model.Option{Value: text, Label: text})
		}
	}
	if field.Kind == model.KindDatePicker {
		field.ShowTimeSelect = prop.Format == "date-time"
	}
	return field, nil
}

func kindFromSchema(prop *openapi3.Schema) (model.FieldKind, error) {
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		return model.KindCheckbox, nil
	case prop.Type.Is(openapi3.TypeString):
		switch {
		case len(prop.Enum) > 0:
			return model.KindSingleSelect, nil
		case prop.Format == "phone" || prop.Format == "tel":
			return model.KindPhoneNumber, nil
		case prop.Format == "date" || prop.Format == "date-time":
			return model.KindDatePicker, nil
		default:
			return model.KindPlainText, nil
		}
	default:
		var types []string
		if prop.Type != nil {
			types = prop.Type.Slice()
		}
		return 0, fmt.Errorf("unsupported schema type %v", types)
	}
}

func rulesFromSchema(field model.FieldDescriptor, prop *openapi3.Schema, required bool) ([]validation.Rule, error) {
	spec := RuleSpec{
		Required: required,
		Email:    prop.Format == "email",
		Pattern:  prop.Pattern,
		Message:  stringExtension(prop.Extensions, ExtensionMessage),
	}
	if prop.MinLength > 0 {
		minimum := int(prop.MinLength)
		spec.MinLength = &minimum
	}
	if prop.MaxLength != nil {
		maximum := int(*prop.MaxLength)
		spec.MaxLength = &maximum
	}
	rules, err := spec.build(field.Label)
	if err != nil {
		return nil, fmt.Errorf("definition: property %q: %w", field.Name, err)
	}
	return rules, nil
}

func stringExtension(extensions map[string]any, key string) string {
	value, ok := extensions[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func numberExtension(extensions map[string]any, key string) (float64, bool) {
	switch value := extensions[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

var wordBoundary = regexp.MustCompile(`[_\-\s]+`)

func humanize(name string) string {
	words := wordBoundary.Split(strings.TrimSpace(name), -1)
	out := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		out = append(out, word)
	}
	if len(out) == 0 {
		return name
	}
	joined := strings.Join(out, " ")
	return strings.ToUpper(joined[:1]) + joined[1:]
}
