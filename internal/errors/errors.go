// Package errors defines the coded error the REST client returns. The CLI
// prints it as is; the interactive views only log it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode names the kind of failure behind an API call.
type ErrorCode string

// Codes, one per HTTP outcome the client distinguishes.
const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400, 422
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED" // 429
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE" // 5xx or no connection
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	// ErrCodeInternal covers encode/decode failures and unmapped statuses.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is a failed call: Code for branching, Message for the
// user, Cause for errors.Is/As. Context holds request details such as the
// HTTP status and is only written to logs.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error renders "[CODE] message" with the cause appended when set.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New returns an error without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext is New plus request details.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap attaches code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext is Wrap plus request details.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf digs the code out of err's chain; "" when no StructuredError is in it.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound is CodeOf(err) == ErrCodeNotFound.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}
