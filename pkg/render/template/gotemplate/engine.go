// Package gotemplate implements template.TemplateRenderer on top of pongo2,
// loading Django-style templates from an fs.FS or a directory on disk.
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-intake/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the suffix appended to template names that lack one.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds values available to every template.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// WithGoTemplateOptions accepts go-template engine options so callers that
// configure both engines can share option slices. The pongo2 set built here
// does not read them.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine is a pongo2 template set with a compiled-template cache.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	compiled  map[string]*pongo2.Template
	extension string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Either a base directory or an fs.FS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	set := pongo2.NewSet("intake", loaders...)
	if len(cfg.globals) > 0 {
		set.Globals.Update(pongo2.Context(cfg.globals))
	}

	return &Engine{
		set:       set,
		compiled:  make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}, nil
}

// RenderTemplate executes the named template file.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	return rendered, writeAll(rendered, out)
}

// RenderString compiles and executes inline template content. The result
// is not cached.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return rendered, writeAll(rendered, out)
}

// RegisterFilter exposes fn as a pongo2 filter. pongo2 filters are process
// wide; registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramValue any
		if param != nil {
			paramValue = param.Interface()
		}
		result, err := fn(in.Interface(), paramValue)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.compiled[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.compiled[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.compiled[path] = tmpl
	return tmpl, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("gotemplate: unsupported template data %T", data)
	}
}

func writeAll(rendered string, writers []io.Writer) error {
	for _, w := range writers {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}
