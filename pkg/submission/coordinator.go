// Package submission owns the submit step: the caller's in-flight status,
// validation of the full record, and the once-per-acceptance call to the
// external collaborator with its failures contained.
package submission

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

// MessageFailed is the user-facing message for any collaborator failure.
const MessageFailed = "Something went wrong"

// Status is the caller-owned "submission in flight" flag. While Submitting
// is set the form is disabled and further submits are refused.
type Status struct {
	Submitting bool
}

// State classifies a submit attempt.
type State int

const (
	StateSucceeded State = iota + 1
	StateRejected
	StateFailed
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Result describes one submit attempt.
type Result struct {
	State State
	// Errors holds per-field messages when State is StateRejected.
	Errors map[string]string
	// Message is the user-facing text for StateFailed.
	Message string
	// AttemptID tags the log entries of an attempt that reached the
	// collaborator.
	AttemptID string
	// Record is the accepted record handed to the collaborator.
	Record *model.SubmissionRecord
	// Patient is the typed view of Record for the patient form; nil for
	// other forms.
	Patient *validation.Patient
	// Err is the collaborator failure, for callers that inspect it.
	Err error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithEngine replaces the patient engine, for forms with their own rules.
func WithEngine(engine *validation.Engine) Option {
	return func(c *Coordinator) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAttemptIDs overrides the attempt id generator.
func WithAttemptIDs(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Coordinator validates submitted records and forwards accepted records to
// the collaborator. It holds no per-attempt state and is safe for concurrent
// use; the re-entry gate is the Status the caller passes in.
type Coordinator struct {
	engine    *validation.Engine
	submitter Submitter
	log       *slog.Logger
	newID     func() string
}

// NewCoordinator builds a coordinator for submitter using the patient rules.
func NewCoordinator(submitter Submitter, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:    validation.NewPatientEngine(),
		submitter: submitter,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.submitter == nil {
		c.submitter = LogSubmitter{Logger: c.log}
	}
	return c
}

// Submit runs one attempt. A busy status is returned untouched and nothing
// else happens. Otherwise the record is validated; rejected records never
// reach the collaborator and accepted ones reach it exactly once. Errors and
// panics from the collaborator are logged and reported as StateFailed. The
// returned status is always idle for attempts that were not refused as busy.
func (c *Coordinator) Submit(ctx context.Context, status Status, record model.SubmissionRecord) (Status, Result) {
	if status.Submitting {
		c.log.WarnContext(ctx, "submission.busy")
		return status, Result{State: StateBusy}
	}

	outcome := c.engine.Validate(record)
	if !outcome.Accepted() {
		c.log.DebugContext(ctx, "submission.rejected", slog.Int("fields", len(outcome.Errors())))
		return Status{}, Result{State: StateRejected, Errors: outcome.Errors()}
	}
	accepted, _ := outcome.Record()

	attemptID := c.newID()
	c.log.InfoContext(ctx, "submission.start",
		slog.String("attempt_id", attemptID),
		slog.Int("fields", accepted.Len()),
	)
	err := c.call(ctx, accepted)

	var result Result
	if err != nil {
		result = c.failed(ctx, attemptID, err)
	} else {
		c.log.InfoContext(ctx, "submission.ok", slog.String("attempt_id", attemptID))
		result = Result{State: StateSucceeded, AttemptID: attemptID}
	}
	result.Record = &accepted
	if patient, ok := validation.PatientView(accepted); ok {
		result.Patient = &patient
	}
	return Status{}, result
}

func (c *Coordinator) call(ctx context.Context, record model.SubmissionRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission: collaborator panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.submitter.Submit(ctx, record)
}

func (c *Coordinator) failed(ctx context.Context, attemptID string, err error) Result {
	c.log.ErrorContext(ctx, "submission.fail",
		slog.String("attempt_id", attemptID),
		slog.String("err", err.Error()),
	)
	return Result{State: StateFailed, Message: MessageFailed, AttemptID: attemptID, Err: err}
}
