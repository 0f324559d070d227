// Package errors carries the error codes kbgraph reports across the CLI and
// the HTTP server.
//
// A [Code] travels with the error through wrapping, so the server can pick a
// status and the CLI a message without matching on strings:
//
//	if err := kberrors.ValidateSize(w, h); err != nil {
//	    return kberrors.Wrap(kberrors.ErrCodeInvalidSize, err, "resize session %s", id)
//	}
//	status := statusFor(kberrors.GetCode(err))
//
// Data sources that answer 429 produce a [RateLimitedError], which carries
// the server's Retry-After and reports [ErrCodeRateLimited].
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Request and data validation
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidNodeID Code = "INVALID_NODE_ID"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidSize   Code = "INVALID_SIZE"
	ErrCodeInvalidEvent  Code = "INVALID_EVENT"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"

	// Missing resources
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Data source failures
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// coded is implemented by every error type in this package.
type coded interface {
	error
	ErrorCode() Code
}

// Error is a coded error with a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause. The cause stays reachable through
// errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" if there is none.
func GetCode(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// Is reports whether the outermost code in err's chain is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the part of err that is safe to show a user: the
// message of a coded error without its code and cause, or err.Error()
// for anything else.
func UserMessage(err error) string {
	var c coded
	if !errors.As(err, &c) {
		return err.Error()
	}
	if e, ok := c.(*Error); ok {
		return e.Message
	}
	return c.Error()
}

// RateLimitedError is returned when a data source answers 429.
type RateLimitedError struct {
	RetryAfter int // seconds, from the Retry-After header
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("data source rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "data source rate limited"
}

// ErrorCode returns [ErrCodeRateLimited].
func (e *RateLimitedError) ErrorCode() Code { return ErrCodeRateLimited }
