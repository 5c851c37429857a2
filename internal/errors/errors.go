// Package errors provides the coded domain errors returned by QuillPress services.
//
// Services return *Error values; the API layer maps the Code to an HTTP status:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound            Code = "NOT_FOUND"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"
	CodeAccountDeactivated  Code = "ACCOUNT_DEACTIVATED"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeValidation          Code = "VALIDATION"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied, CodeAccountDeactivated:
		return http.StatusForbidden
	case CodeInvalidCredentials, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConstraintViolation:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrPermissionDenied    = &Error{Code: CodePermissionDenied, Message: "permission denied"}
	ErrInvalidCredentials  = &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	ErrAccountDeactivated  = &Error{Code: CodeAccountDeactivated, Message: "account is deactivated"}
	ErrConstraintViolation = &Error{Code: CodeConstraintViolation, Message: "constraint violation"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized        = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrRateLimited         = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied creates a permission denied error.
func PermissionDenied(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Message: msg}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// AccountDeactivated creates an account deactivated error.
func AccountDeactivated(msg string) *Error {
	return &Error{Code: CodeAccountDeactivated, Message: msg}
}

// ConstraintViolation creates a constraint violation error.
func ConstraintViolation(msg string) *Error {
	return &Error{Code: CodeConstraintViolation, Message: msg}
}

// ValidationWithDetails creates a validation error with per-field details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
