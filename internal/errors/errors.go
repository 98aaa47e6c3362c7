// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Standard sentinel errors
var (
	ErrRateLimited      = errors.New("rate limited")
	ErrTimeout          = errors.New("operation timed out")
	ErrEmptyResponse    = errors.New("empty response")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
	ErrConfigInvalid    = errors.New("invalid configuration")
)

// QuoteError represents an error from the quote service.
type QuoteError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *QuoteError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("quote error [%s] %s: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("quote error %s: %v", e.Op, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(symbol, op string, err error) *QuoteError {
	return &QuoteError{Symbol: symbol, Op: op, Err: err}
}

// CoachError represents an error from a coaching (LLM) call. When the call
// was rate limited, RetryIn carries the cooldown to surface to the user.
type CoachError struct {
	EntryID string
	Op      string
	RetryIn time.Duration
	Err     error
}

func (e *CoachError) Error() string {
	if e.RetryIn > 0 {
		return fmt.Sprintf("coach error [%s] %s: retry in %ds: %v", e.EntryID, e.Op, int(e.RetryIn.Seconds()), e.Err)
	}
	return fmt.Sprintf("coach error [%s] %s: %v", e.EntryID, e.Op, e.Err)
}

func (e *CoachError) Unwrap() error {
	return e.Err
}

// NewCoachError creates a new CoachError.
func NewCoachError(entryID, op string, retryIn time.Duration, err error) *CoachError {
	return &CoachError{EntryID: entryID, Op: op, RetryIn: retryIn, Err: err}
}

// ReportError represents an error while generating a weekly report.
type ReportError struct {
	Week string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report error [week %s]: %v", e.Week, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError.
func NewReportError(week string, err error) *ReportError {
	return &ReportError{Week: week, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
