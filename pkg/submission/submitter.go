package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/model"
)

// Submitter is the external collaborator that receives accepted records.
// The record holds every declared field of the form, coerced by the rules.
type Submitter interface {
	Submit(ctx context.Context, record model.SubmissionRecord) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, record model.SubmissionRecord) error

func (f SubmitterFunc) Submit(ctx context.Context, record model.SubmissionRecord) error {
	return f(ctx, record)
}

// LogSubmitter records accepted submissions in the log and nothing else.
type LogSubmitter struct {
	Logger *slog.Logger
}

func (s LogSubmitter) Submit(ctx context.Context, record model.SubmissionRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	names := record.Names()
	attrs := make([]any, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, slog.String(name, record.Get(name).String()))
	}
	logger.InfoContext(ctx, "submission.received", slog.Group("record", attrs...))
	return nil
}

// DefaultHTTPTimeout bounds HTTPSubmitter requests when no client is given.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPSubmitter posts the record as a JSON object, keys in form order, to
// the creation endpoint.
type HTTPSubmitter struct {
	URL    string
	Client *http.Client
	Header http.Header
}

// ResponseError reports a non-2xx answer from the endpoint. Errors holds the
// per-path messages of a {"errors": {...}} body when one was returned.
type ResponseError struct {
	StatusCode int
	Errors     map[string][]string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("submission: endpoint returned status %d", e.StatusCode)
}

func (s HTTPSubmitter) Submit(ctx context.Context, record model.SubmissionRecord) error {
	if strings.TrimSpace(s.URL) == "" {
		return errors.New("submission: endpoint url is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("submission: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("submission: build request: %w", err)
	}
	for key, values := range s.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("submission: post record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return &ResponseError{
		StatusCode: resp.StatusCode,
		Errors:     decodeErrorPayload(resp.Body),
	}
}

func decodeErrorPayload(body io.Reader) map[string][]string {
	var payload struct {
		Errors map[string]json.RawMessage `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(&payload); err != nil {
		return nil
	}
	out := make(map[string][]string, len(payload.Errors))
	for path, raw := range payload.Errors {
		var many []string
		if err := json.Unmarshal(raw, &many); err == nil {
			out[path] = many
			continue
		}
		var one string
		if err := json.Unmarshal(raw, &one); err == nil {
			out[path] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
