package tui

import (
	"errors"
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected interrupt to map to ErrAborted, got %v", err)
	}
	if err := translateSurveyErr(io.EOF); !errors.Is(err, io.EOF) {
		t.Fatalf("expected other errors to pass through, got %v", err)
	}
}
