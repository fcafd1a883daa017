// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeInput ErrorType = iota
	ErrorTypeUpstream
	ErrorTypePolicy
	ErrorTypeIO
)

// String returns a short label used in logs and metrics
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeInput:
		return "input"
	case ErrorTypeUpstream:
		return "upstream"
	case ErrorTypePolicy:
		return "policy"
	case ErrorTypeIO:
		return "io"
	default:
		return "unknown"
	}
}

// baseError is the base implementation for all error types.
// msg is shown to the user as is, cause stays in logs.
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// UserMessage returns the text that can be sent back to the chat
func (e *baseError) UserMessage() string {
	return e.msg
}

// InputError represents a bad link or a malformed callback token
type InputError struct {
	baseError
}

// NewInputError creates a new InputError
func NewInputError(msg string) *InputError {
	return &InputError{baseError{msg: msg}}
}

// UpstreamError represents a failure of the video hosting platform
type UpstreamError struct {
	baseError
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(msg string, cause error) *UpstreamError {
	return &UpstreamError{baseError{msg: msg, cause: cause}}
}

// PolicyError represents a request rejected by a local limit
type PolicyError struct {
	baseError
}

// NewPolicyError creates a new PolicyError
func NewPolicyError(msg string) *PolicyError {
	return &PolicyError{baseError{msg: msg}}
}

// IOError represents a local filesystem failure
type IOError struct {
	baseError
}

// NewIOError creates a new IOError
func NewIOError(msg string, cause error) *IOError {
	return &IOError{baseError{msg: msg, cause: cause}}
}

// IsInputError checks if error is an InputError
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// IsUpstreamError checks if error is an UpstreamError
func IsUpstreamError(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// IsPolicyError checks if error is a PolicyError
func IsPolicyError(err error) bool {
	var target *PolicyError
	return errors.As(err, &target)
}

// IsIOError checks if error is an IOError
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// TypeOf returns the category of err and false for untyped errors
func TypeOf(err error) (ErrorType, bool) {
	switch {
	case IsInputError(err):
		return ErrorTypeInput, true
	case IsUpstreamError(err):
		return ErrorTypeUpstream, true
	case IsPolicyError(err):
		return ErrorTypePolicy, true
	case IsIOError(err):
		return ErrorTypeIO, true
	default:
		return 0, false
	}
}

// UserMessage extracts the user facing text from a typed error.
// Untyped errors fall back to fallback.
func UserMessage(err error, fallback string) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return fallback
}
