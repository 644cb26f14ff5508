package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	rendertemplate "github.com/goliatone/go-intake/pkg/render/template"
	gotemplate "github.com/goliatone/go-intake/pkg/render/template/gotemplate"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-intake/pkg/resolver"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	resolver         *resolver.Resolver
	loaderIcon       string
	submitClass      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithComponentOverrides forces a component per field name.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		cfg.overrides = cloneStringMap(overrides)
	}
}

// WithResolver sets the resolver used to turn descriptors into controls.
func WithResolver(r *resolver.Resolver) Option {
	return func(cfg *config) {
		if r != nil {
			cfg.resolver = r
		}
	}
}

// WithLoaderIcon changes the image shown while submitting.
func WithLoaderIcon(src string) Option {
	return func(cfg *config) {
		if src = strings.TrimSpace(src); src != "" {
			cfg.loaderIcon = src
		}
	}
}

// WithSubmitClass changes the submit button classes.
func WithSubmitClass(class string) Option {
	return func(cfg *config) {
		if class = strings.TrimSpace(class); class != "" {
			cfg.submitClass = class
		}
	}
}

// Renderer produces server-rendered HTML for intake forms.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	overrides   map[string]string
	resolver    *resolver.Resolver
	loaderIcon  string
	submitClass string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		loaderIcon:  DefaultLoaderIcon,
		submitClass: DefaultSubmitClass,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.resolver == nil {
		cfg.resolver = resolver.New()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:   templates,
		registry:    cfg.registry,
		overrides:   cfg.overrides,
		resolver:    cfg.resolver,
		loaderIcon:  cfg.loaderIcon,
		submitClass: cfg.submitClass,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the component stylesheet links, the header, each resolved field
// in declaration order, and the submit control. Fields whose kind has no rendering rule are skipped.
func (r *Renderer) Render(ctx context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	fields := newComponentRenderer(r.templates, r.registry, r.overrides)
	var body strings.Builder
	for _, res := range r.resolver.ResolveAll(form) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := fields.render(res, options)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		body.WriteString(markup)
	}

	submit, err := r.templates.RenderTemplate("templates/submit_button.tmpl", map[string]any{
		"class":      r.submitClass,
		"label":      submitLabel(form),
		"loading":    options.Submitting,
		"loader_src": r.loaderIcon,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render submit button: %w", err)
	}

	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"stylesheets":   r.Stylesheets(form),
		"form_id":       form.ID,
		"title":         form.Title,
		"subtitle":      form.Subtitle,
		"notice":        options.Notice,
		"form_errors":   render.MergeFormErrors(nil, options.FormErrors...),
		"hidden_fields": hiddenPayload(options.Hidden),
		"fields":        body.String(),
		"submit":        submit,
		"submitting":    options.Submitting,
		"action":        options.Action,
		"method":        method,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Stylesheets lists the stylesheets of components rendered for form. Render
// links each one ahead of the form element.
func (r *Renderer) Stylesheets(form model.Form) []string {
	names := make([]string, 0, len(form.Fields))
	for _, res := range r.resolver.ResolveAll(form) {
		name := r.overrides[res.Descriptor().Name]
		if name == "" {
			name = components.NameFor(res)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return r.registry.Stylesheets(names)
}
