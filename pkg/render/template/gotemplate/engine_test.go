package gotemplate_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-intake/pkg/render/template/gotemplate"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tmpl":  {Data: []byte(`Hello {{ name }}!`)},
		"escape.tmpl": {Data: []byte(`<p>{{ body }}</p>`)},
		"global.tmpl": {Data: []byte(`env={{ env }}`)},
		"filter.tmpl": {Data: []byte(`{{ name|intake_shout }}`)},
	}
	base := []gotemplate.Option{gotemplate.WithFS(files), gotemplate.WithGoTemplateOptions()}
	engine, err := gotemplate.New(append(base, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if got != "Hello Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
	if written != got {
		t.Fatalf("writer mismatch: %q vs %q", written, got)
	}
}

func TestEngineAutoescapes(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("escape.tmpl", map[string]any{"body": `<script>alert(1)</script>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngineGlobals(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{"env": "staging"}))

	got, err := engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("intake_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("intake_shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	got, err := engine.RenderTemplate("filter", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString(`{% if ok %}yes{% else %}no{% endif %}`, map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "yes" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderTemplate("hello", 42); err == nil {
		t.Fatalf("expected error for unsupported data")
	}
}
