package submission_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/submission"
)

func TestHTTPSubmitterPostsJSON(t *testing.T) {
	var received map[string]any
	var contentType, token string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		contentType = r.Header.Get("Content-Type")
		token = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	submitter := submission.HTTPSubmitter{
		URL:    server.URL,
		Client: server.Client(),
		Header: http.Header{"Authorization": {"Bearer t0k"}},
	}
	fields := []model.FieldDescriptor{
		{Kind: model.KindPlainText, Name: "name"},
		{Kind: model.KindCheckbox, Name: "consent"},
		{Kind: model.KindPlainText, Name: "notes"},
	}
	submitted, err := model.NewRecord(fields, map[string]model.FieldValue{
		"name":    model.Text("Ada"),
		"consent": model.Bool(true),
	})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := submitter.Submit(context.Background(), submitted); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]any{"name": "Ada", "consent": true, "notes": nil}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if contentType != "application/json" || token != "Bearer t0k" {
		t.Fatalf("unexpected headers %q %q", contentType, token)
	}
}

func TestHTTPSubmitterReportsErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"/body/email":["Email already registered"],"base":"Try later"}}`))
	}))
	defer server.Close()

	err := submission.HTTPSubmitter{URL: server.URL, Client: server.Client()}.Submit(context.Background(), model.SubmissionRecord{})
	var respErr *submission.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if respErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", respErr.StatusCode)
	}
	want := map[string][]string{
		"/body/email": {"Email already registered"},
		"base":        {"Try later"},
	}
	if diff := cmp.Diff(want, respErr.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSubmitterRequiresURL(t *testing.T) {
	if err := (submission.HTTPSubmitter{}).Submit(context.Background(), model.SubmissionRecord{}); err == nil {
		t.Fatalf("expected missing url error")
	}
}
