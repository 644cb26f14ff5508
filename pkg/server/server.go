// Package server hosts an intake form over HTTP: GET renders it, POST
// captures, validates, and submits it, re-rendering with field errors or a
// success notice.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/resolver"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Messages shown on the form after a POST.
const (
	NoticeSubmitted = "Thanks! Your details were received."
	MessageBusy     = "A submission is already in progress."
)

const maxFormBytes = 64 << 10

// Option configures the handler.
type Option func(*Handler)

// WithResolver sets the resolver used to capture posted values. It should
// match the one the renderer draws with.
func WithResolver(r *resolver.Resolver) Option {
	return func(h *Handler) {
		if r != nil {
			h.resolver = r
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithAssets serves files from assets under /assets/.
func WithAssets(assets fs.FS) Option {
	return func(h *Handler) {
		h.assets = assets
	}
}

// WithHidden adds hidden inputs to every render.
func WithHidden(fields ...render.HiddenField) Option {
	return func(h *Handler) {
		h.hidden = append(h.hidden, fields...)
	}
}

// Handler serves one form. It keeps a single process-wide in-flight status
// so at most one submission reaches the collaborator at a time.
type Handler struct {
	form        model.Form
	renderer    render.Renderer
	coordinator *submission.Coordinator
	resolver    *resolver.Resolver
	log         *slog.Logger
	assets      fs.FS
	hidden      []render.HiddenField

	mu     sync.Mutex
	status submission.Status

	mux *http.ServeMux
}

// New builds a handler for form.
func New(form model.Form, renderer render.Renderer, coordinator *submission.Coordinator, opts ...Option) (*Handler, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if coordinator == nil {
		return nil, errors.New("server: coordinator is required")
	}

	h := &Handler{
		form:        form,
		renderer:    renderer,
		coordinator: coordinator,
		resolver:    resolver.New(),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleForm)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h.assets != nil {
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(h.assets))))
	}
	h.mux = mux
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Status reports the current in-flight flag.
func (h *Handler) Status() submission.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.write(w, r, http.StatusOK, render.RenderOptions{Submitting: h.Status().Submitting})
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.log.WarnContext(ctx, "http.form.parse.fail", slog.String("err", err.Error()))
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	record, err := h.resolver.Capture(h.form, eventsFrom(h.form, r))
	if err != nil {
		h.log.WarnContext(ctx, "http.form.capture.fail", slog.String("err", err.Error()))
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	if !h.begin() {
		h.write(w, r, http.StatusConflict, render.RenderOptions{
			Values:     &record,
			FormErrors: []string{MessageBusy},
			Submitting: true,
		})
		return
	}
	next, result := h.coordinator.Submit(ctx, submission.Status{}, record)
	h.finish(next)

	h.log.InfoContext(ctx, "http.submit.done", slog.String("state", result.State.String()))

	switch result.State {
	case submission.StateSucceeded:
		h.write(w, r, http.StatusOK, render.RenderOptions{Notice: NoticeSubmitted})
	case submission.StateRejected:
		h.write(w, r, http.StatusUnprocessableEntity, render.RenderOptions{
			Values: &record,
			Errors: render.MapOutcome(validation.Rejected(result.Errors)),
		})
	default:
		options := render.RenderOptions{
			Values:     &record,
			FormErrors: []string{result.Message},
		}
		var respErr *submission.ResponseError
		if errors.As(result.Err, &respErr) && len(respErr.Errors) > 0 {
			mapping := render.MapErrorPayload(h.form, respErr.Errors)
			options.Errors = mapping.Fields
			options.FormErrors = render.MergeFormErrors(options.FormErrors, mapping.Form...)
		}
		h.write(w, r, http.StatusBadGateway, options)
	}
}

// begin claims the in-flight flag; false means another attempt holds it.
func (h *Handler) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status.Submitting {
		return false
	}
	h.status = submission.Status{Submitting: true}
	return true
}

func (h *Handler) finish(next submission.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = next
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, code int, options render.RenderOptions) {
	options.Hidden = append(options.Hidden, h.hidden...)
	body, err := h.renderer.Render(r.Context(), h.form, options)
	if err != nil {
		h.log.ErrorContext(r.Context(), "http.render.fail", slog.String("err", err.Error()))
		http.Error(w, "render form", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// eventsFrom maps posted values onto capture events. Checkboxes are checked
// when their name is present; other fields only produce an event when posted.
func eventsFrom(form model.Form, r *http.Request) map[string]resolver.Event {
	events := make(map[string]resolver.Event, len(form.Fields))
	for _, field := range form.Fields {
		values, posted := r.PostForm[field.Name]
		if field.Kind == model.KindCheckbox {
			events[field.Name] = resolver.Event{Checked: posted && len(values) > 0 && values[0] != ""}
			continue
		}
		if !posted {
			continue
		}
		events[field.Name] = resolver.Event{Text: firstValue(values)}
	}
	return events
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// ListenAndServe runs handler on addr until ctx is done, then shuts down
// within grace.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, grace time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http.listen", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	logger.Info("http.shutdown")
	return nil
}
