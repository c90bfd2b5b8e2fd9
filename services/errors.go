package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal error")
)

// Error is the concrete error type returned by services
type Error struct {
	Kind    error
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidationError builds a 400-class error
func NewValidationError(code, message string) *Error {
	return &Error{Kind: ErrValidation, Code: code, Message: message}
}

// NewConflictError builds a 409-class error
func NewConflictError(code, message string) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: message}
}

// NewNotFoundError builds a 404-class error
func NewNotFoundError(code, message string) *Error {
	return &Error{Kind: ErrNotFound, Code: code, Message: message}
}

// NewAuthError builds a 401-class error
func NewAuthError(code, message string) *Error {
	return &Error{Kind: ErrAuth, Code: code, Message: message}
}

// NewForbiddenError builds a 403-class error
func NewForbiddenError(code, message string) *Error {
	return &Error{Kind: ErrForbidden, Code: code, Message: message}
}

// NewInternalError wraps an unexpected failure; the cause is for logs only
func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Code: "INTERNAL_ERROR", Message: message, Cause: cause}
}

// AsError extracts the service error from err, wrapping unknown errors as internal
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return NewInternalError("Unexpected error", err)
}
