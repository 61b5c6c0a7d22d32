package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies analysis failures so batch drivers can record
// them per task set instead of aborting a whole run.
type ErrorCode string

const (
	// ErrInvalidInput covers malformed tasks, task sets, and platforms:
	// non-positive period or deadline, WCET exceeding deadline or period,
	// empty task sets, empty speed lists.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrUnsupportedPlatform is returned when a multiprocessor-only
	// analysis is invoked on a single-core platform.
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"

	// ErrArithmeticDomain indicates a platform/task combination outside
	// the analytical domain of the test (no processor-count threshold
	// satisfies the required inequality).
	ErrArithmeticDomain ErrorCode = "ARITHMETIC_DOMAIN"

	ErrNotFound ErrorCode = "NOT_FOUND"
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError is a structured failure surfaced by the schedulability
// engine and its collaborators.
type AnalysisError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *AnalysisError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidInput creates an INVALID_INPUT error.
func NewInvalidInput(format string, args ...any) *AnalysisError {
	return &AnalysisError{Code: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewUnsupportedPlatform creates an UNSUPPORTED_PLATFORM error.
func NewUnsupportedPlatform(format string, args ...any) *AnalysisError {
	return &AnalysisError{Code: ErrUnsupportedPlatform, Message: fmt.Sprintf(format, args...)}
}

// NewArithmeticDomain creates an ARITHMETIC_DOMAIN error.
func NewArithmeticDomain(format string, args ...any) *AnalysisError {
	return &AnalysisError{Code: ErrArithmeticDomain, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound creates a NOT_FOUND error for a missing stored entity.
func NewNotFound(resource string, id any) *AnalysisError {
	return &AnalysisError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%v' not found", resource, id),
	}
}

// CodeOf returns the ErrorCode carried by err, or ErrInternal if err is
// not an AnalysisError. CodeOf(nil) returns "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrInternal
}
