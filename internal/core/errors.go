// internal/core/errors.go
package core

import (
	"encoding/json"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// MarshalJSON flattens the cause to a string so errors survive the
// trip through API responses.
func (e *Error) MarshalJSON() ([]byte, error) {
	var cause string
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	return json.Marshal(struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Cause   string `json:"cause,omitempty"`
	}{e.Code, e.Message, cause})
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Input contract violations raised by the backtest core. None of
	// these are retried: they mean the caller passed invalid input.
	ErrInvalidWindow      = &Error{Code: "INVALID_WINDOW", Message: "short window must be positive and smaller than long window"}
	ErrInsufficientData   = &Error{Code: "INSUFFICIENT_DATA", Message: "price series shorter than long window"}
	ErrEmptySeries        = &Error{Code: "EMPTY_SERIES", Message: "signal series has no rows"}
	ErrNonPositiveCapital = &Error{Code: "NON_POSITIVE_CAPITAL", Message: "initial capital must be positive"}
	ErrNonPositivePrice   = &Error{Code: "NON_POSITIVE_PRICE", Message: "close price must be positive"}
	ErrZeroDuration       = &Error{Code: "ZERO_DURATION_SERIES", Message: "ledger too short to annualize"}

	// Data errors
	ErrNoData          = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrCollectorFailed = &Error{Code: "COLLECTOR_FAILED", Message: "data collector failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "result archive failed"}

	// LLM errors
	ErrLLMFailed = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
)
