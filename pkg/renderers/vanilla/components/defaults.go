package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-intake/pkg/resolver"
)

// Canonical component names used by the vanilla renderer.
const (
	NameInput    = "input"
	NamePhone    = "phone"
	NameCheckbox = "checkbox"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with the built-in text, phone, and
// checkbox components.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateRenderer(templatePrefix+"input.tmpl", inputPayload),
	})
	registry.MustRegister(NamePhone, Descriptor{
		Renderer: templateRenderer(templatePrefix+"phone.tmpl", phonePayload),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateRenderer(templatePrefix+"checkbox.tmpl", checkboxPayload),
	})
	return registry
}

// NameFor maps a resolution onto its default component. Unhandled
// resolutions have no component and map to "".
func NameFor(res resolver.Resolution) string {
	switch res.(type) {
	case resolver.TextInput:
		return NameInput
	case resolver.PhoneInput:
		return NamePhone
	case resolver.CheckboxInput:
		return NameCheckbox
	default:
		return ""
	}
}

type payloadFunc func(data ComponentData) map[string]any

func templateRenderer(templateName string, payload payloadFunc) Renderer {
	return func(buf *bytes.Buffer, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		if data.Resolution == nil {
			return fmt.Errorf("components: resolution missing for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, payload(data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func basePayload(data ComponentData) map[string]any {
	desc := data.Resolution.Descriptor()
	hints := data.Resolution.Hints()
	return map[string]any{
		"id":          data.ControlID,
		"name":        desc.Name,
		"label":       hints.Label,
		"placeholder": hints.Placeholder,
		"disabled":    hints.Disabled,
		"invalid":     data.Invalid,
		"value":       data.Value.String(),
	}
}

func inputPayload(data ComponentData) map[string]any {
	payload := basePayload(data)
	if icon := data.Resolution.Hints().Icon; icon != nil {
		payload["icon"] = map[string]any{
			"src": icon.Src,
			"alt": icon.Alt,
		}
	}
	return payload
}

func phonePayload(data ComponentData) map[string]any {
	payload := basePayload(data)
	if phone, ok := data.Resolution.(resolver.PhoneInput); ok {
		payload["country"] = phone.Country
		payload["calling_code"] = phone.CallingCode
		payload["value"] = phone.Display(data.Value)
	}
	return payload
}

func checkboxPayload(data ComponentData) map[string]any {
	payload := basePayload(data)
	checked, _ := data.Value.AsBool()
	payload["checked"] = checked
	return payload
}
