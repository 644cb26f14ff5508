package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/render/template"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-intake/pkg/resolver"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		overrides: cloneStringMap(overrides),
	}
}

// render returns the markup for one field, or "" when the field has nothing
// to draw.
func (r *componentRenderer) render(res resolver.Resolution, options render.RenderOptions) (string, error) {
	desc := res.Descriptor()
	value := options.ValueOf(desc.Name)
	messages := options.Errors[desc.Name]

	if unhandled, ok := res.(resolver.Unhandled); ok {
		if !unhandled.Renders() {
			return "", nil
		}
		control, err := unhandled.Custom.Render(desc, value)
		if err != nil {
			return "", fmt.Errorf("render custom field %q: %w", desc.Name, err)
		}
		return buildFieldMarkup(res, "custom", control, messages), nil
	}

	componentName := r.overrides[desc.Name]
	if componentName == "" {
		componentName = components.NameFor(res)
	}
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, desc.Name)
	}

	var control bytes.Buffer
	err := descriptor.Renderer(&control, components.ComponentData{
		Template:   r.templates,
		Resolution: res,
		Value:      value,
		ControlID:  controlID(desc.Name),
		Invalid:    len(messages) > 0,
	})
	if err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, desc.Name, err)
	}
	return buildFieldMarkup(res, descriptor.Name, control.String(), messages), nil
}

func buildFieldMarkup(res resolver.Resolution, componentName, control string, messages []string) string {
	desc := res.Descriptor()
	hints := res.Hints()

	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`  <div class="shad-form-item flex flex-1 flex-col gap-1" data-field="`)
	builder.WriteString(html.EscapeString(desc.Name))
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(desc.Kind.String()))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString("\">\n")

	if hints.ShowLabel {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(controlID(desc.Name)))
		builder.WriteString(`" class="shad-input-label">`)
		builder.WriteString(html.EscapeString(hints.Label))
		builder.WriteString("</label>\n")
	}

	builder.WriteString(indent(control, "    "))

	if description := sanitizeDescription(hints.Description); description != "" {
		builder.WriteString(`    <p class="intake-description">`)
		builder.WriteString(description)
		builder.WriteString("</p>\n")
	}

	for _, message := range messages {
		if message = strings.TrimSpace(message); message == "" {
			continue
		}
		builder.WriteString(`    <p class="shad-error" data-error-for="`)
		builder.WriteString(html.EscapeString(desc.Name))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("  </div>\n")
	return builder.String()
}

func indent(markup, prefix string) string {
	markup = strings.TrimRight(markup, "\n")
	if markup == "" {
		return ""
	}
	lines := strings.Split(markup, "\n")
	var builder strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString(prefix)
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String()
}

func hiddenPayload(fields []render.HiddenField) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func submitLabel(form model.Form) string {
	if label := strings.TrimSpace(form.SubmitLabel); label != "" {
		return label
	}
	return "Submit"
}
