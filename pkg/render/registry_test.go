package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
)

type namedRenderer string

func (r namedRenderer) Name() string { return string(r) }
func (namedRenderer) ContentType() string { return "text/plain" }
func (r namedRenderer) Render(context.Context, model.Form, render.RenderOptions) ([]byte, error) {
	return []byte(r), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()

	if _, err := registry.Default(""); err == nil {
		t.Fatalf("expected error from empty registry")
	}

	registry.MustRegister(namedRenderer("vanilla"))
	got, err := registry.Default("")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("expected sole renderer as default, got %v, %v", got, err)
	}

	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}

	registry.MustRegister(namedRenderer("tui"))
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Default(""); err == nil {
		t.Fatalf("expected ambiguity error with two renderers")
	}
	if _, err := registry.Get("preact"); err == nil {
		t.Fatalf("expected lookup of unknown renderer to fail")
	}
}
