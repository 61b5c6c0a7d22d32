package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAnalysisError_Error(t *testing.T) {
	err := NewInvalidInput("period %v is not positive", -1)
	want := "INVALID_INPUT: period -1 is not positive"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	withField := &AnalysisError{Code: ErrInvalidInput, Message: "bad value", Field: "period"}
	if got := withField.Error(); got != "INVALID_INPUT: bad value (period)" {
		t.Errorf("got %q", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
	if got := CodeOf(NewUnsupportedPlatform("single core")); got != ErrUnsupportedPlatform {
		t.Errorf("got %s, want UNSUPPORTED_PLATFORM", got)
	}
	if got := CodeOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("plain error: got %s, want INTERNAL_ERROR", got)
	}

	// Wrapped errors keep their code.
	wrapped := fmt.Errorf("analyze set 7: %w", NewArithmeticDomain("no threshold"))
	if got := CodeOf(wrapped); got != ErrArithmeticDomain {
		t.Errorf("wrapped: got %s, want ARITHMETIC_DOMAIN", got)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("task set", 42)
	if CodeOf(err) != ErrNotFound {
		t.Errorf("got %s, want NOT_FOUND", CodeOf(err))
	}
	if err.Error() != "NOT_FOUND: task set '42' not found" {
		t.Errorf("got %q", err.Error())
	}
}
