package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template content with
// the supplied data. When writers are passed the output is also written to
// each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
