package orchestrator_test

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

func TestGenerateDefaultsToPatientForm(t *testing.T) {
	orch := orchestrator.New()

	output, err := orch.Generate(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	for _, want := range []string{`data-field="name"`, `data-field="email"`, `data-field="phone"`, "Get Started"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if diff := cmp.Diff([]string{"vanilla"}, orch.Registry().List()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFromYAMLFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/appointment.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	def := testsupport.MustLoadDefinition(t, "testdata/appointment.yaml")
	record := testsupport.MustLoadRecord(t, def.Form, "testdata/appointment_record.json")

	outcome := def.Engine().Validate(record)
	errs := render.MapOutcome(outcome)
	if len(errs["name"]) == 0 {
		t.Fatalf("expected name error, got %v", errs)
	}

	output, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		YAML: raw,
		RenderOptions: render.RenderOptions{
			Values: &record,
			Errors: errs,
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	if !strings.Contains(html, "Book a visit") || !strings.Contains(html, `data-error-for="name"`) {
		t.Fatalf("expected title and name error in output:\n%s", html)
	}
	if !strings.Contains(html, " checked") {
		t.Fatalf("expected checked checkbox in output:\n%s", html)
	}
}

const bookingOpenAPI = `
openapi: 3.0.3
info:
  title: Booking
  version: 1.0.0
paths:
  /bookings:
    post:
      operationId: createBooking
      summary: Book now
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                full_name:
                  type: string
      responses:
        "201":
          description: created
`

func TestGenerateFromOpenAPI(t *testing.T) {
	output, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		OpenAPI:     []byte(bookingOpenAPI),
		OperationID: "createBooking",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), `data-field="full_name"`) {
		t.Fatalf("expected full_name field in output:\n%s", output)
	}

	if _, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{OpenAPI: []byte(bookingOpenAPI)}); err == nil {
		t.Fatalf("expected error without operation id")
	}
}

func TestGenerateUnknownRenderer(t *testing.T) {
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{Renderer: "preact"})
	if err == nil || !strings.Contains(err.Error(), `no renderer named "preact"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}
