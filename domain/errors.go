package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = NewError(ErrCodeConflict, "user already exists")

	// ErrInvalidCredentials deliberately carries the same message for an
	// unknown email and a wrong password so login failures do not reveal
	// which part was wrong.
	ErrInvalidCredentials = NewError(ErrCodeInvalid, "invalid credentials")

	// ErrNotOwner is returned when an authenticated user touches a task
	// that exists but belongs to somebody else.
	ErrNotOwner = NewError(ErrCodeForbidden, "not authorized to modify this task")

	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "not authorized")
	ErrNoToken        = NewError(ErrCodeUnauthorized, "not authorized, no token")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
