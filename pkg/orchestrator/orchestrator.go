package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-intake/pkg/definition"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
	"github.com/goliatone/go-intake/pkg/resolver"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithResolver sets the resolver handed to the default vanilla renderer.
func WithResolver(r *resolver.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = r
	}
}

// Orchestrator coordinates definition loading and rendering.
type Orchestrator struct {
	registry        *render.Registry
	resolver        *resolver.Resolver
	defaultRenderer string

	defaultsApplied bool
	initialiseErr   error
}

// New constructs an Orchestrator. A registry holding the vanilla renderer is
// created when none is supplied.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects the form and renderer for one Generate call. Exactly one
// of Form, YAML, or OpenAPI is used, in that order of precedence; when all
// are empty the embedded patient form is rendered.
type Request struct {
	Form *model.Form
	YAML []byte
	// OpenAPI is a raw document; OperationID picks the request body.
	OpenAPI     []byte
	OperationID string

	Renderer      string
	RenderOptions render.RenderOptions
}

// Generate resolves the requested form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	form, err := o.resolveForm(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveForm(ctx context.Context, req Request) (model.Form, error) {
	switch {
	case req.Form != nil:
		return *req.Form, nil
	case len(req.YAML) > 0:
		form, err := definition.LoadYAML(req.YAML)
		if err != nil {
			return model.Form{}, fmt.Errorf("orchestrator: %w", err)
		}
		return form, nil
	case len(req.OpenAPI) > 0:
		if req.OperationID == "" {
			return model.Form{}, errors.New("orchestrator: operation id is required")
		}
		form, _, _, err := definition.FromOpenAPI(ctx, req.OpenAPI, req.OperationID)
		if err != nil {
			return model.Form{}, fmt.Errorf("orchestrator: %w", err)
		}
		return form, nil
	default:
		return definition.Patient(), nil
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Default(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	o.defaultsApplied = true
	if o.resolver == nil {
		o.resolver = resolver.New()
	}
	if o.registry != nil {
		return
	}
	o.registry = render.NewRegistry()
	renderer, err := vanilla.New(vanilla.WithResolver(o.resolver))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: configure vanilla renderer: %w", err)
		return
	}
	if err := o.registry.Register(renderer); err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: register vanilla renderer: %w", err)
	}
}
