package render

import (
	"context"

	"github.com/goliatone/go-intake/pkg/model"
)

// Renderer converts a form definition into a presentation payload (HTML,
// terminal session output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
