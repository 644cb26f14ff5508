package intake

import (
	"context"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
)

// Form is the declarative form description.
type Form = model.Form

// RenderOptions carries per-request values, errors, and the in-flight flag.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders form with the named renderer. An empty name selects
// the vanilla HTML renderer.
func GenerateHTML(ctx context.Context, form Form, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Form:     &form,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromYAML loads a YAML form definition and renders it.
func GenerateHTMLFromYAML(ctx context.Context, raw []byte, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		YAML:     raw,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromOpenAPI derives a form from an operation's request body and
// renders it.
func GenerateHTMLFromOpenAPI(ctx context.Context, raw []byte, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		OpenAPI:     raw,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}
