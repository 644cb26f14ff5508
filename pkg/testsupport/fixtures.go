// Package testsupport holds fixture and golden helpers shared by package
// tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/definition"
	"github.com/goliatone/go-intake/pkg/model"
)

// MustLoadDefinition reads a YAML form definition fixture.
func MustLoadDefinition(t *testing.T, path string) definition.Definition {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition returns a Definition without requiring testing.T so setup
// functions can share fixtures.
func LoadDefinition(path string) (definition.Definition, error) {
	if path == "" {
		return definition.Definition{}, errors.New("testsupport: definition path is required")
	}
	def, err := definition.LoadFile(path)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// MustLoadRecord decodes a JSON submission fixture against form.
func MustLoadRecord(t *testing.T, form model.Form, path string) model.SubmissionRecord {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	record, err := model.RecordFromJSON(form, data)
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return record
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written and the test should stop comparing.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
