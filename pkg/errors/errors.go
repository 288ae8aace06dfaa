// Package errors provides typed errors for the application
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeUnauthorized
	ErrorTypeServiceUnavailable
	ErrorTypeInternal
)

// baseError is the base implementation for all error types.
// cause is optional and exposed through Unwrap.
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents a validation error (400)
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a not found error (404)
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// UnauthorizedError represents an unauthorized error (401)
type UnauthorizedError struct {
	baseError
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{baseError{msg: msg}}
}

// ServiceUnavailableError represents a temporarily unavailable dependency (503)
type ServiceUnavailableError struct {
	baseError
}

// NewServiceUnavailableError creates a new ServiceUnavailableError
func NewServiceUnavailableError(msg string) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{msg: msg}}
}

// InternalError represents an internal server error (500)
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// WrapInternal creates an InternalError that keeps cause in the chain
func WrapInternal(msg string, cause error) *InternalError {
	return &InternalError{baseError{msg: msg, cause: cause}}
}

// IsValidationError checks if err or any error it wraps is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if err or any error it wraps is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnauthorizedError checks if err or any error it wraps is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsInternalError checks if err or any error it wraps is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// TypeOf returns the ErrorType of err, defaulting to ErrorTypeInternal
func TypeOf(err error) ErrorType {
	switch {
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsUnauthorizedError(err):
		return ErrorTypeUnauthorized
	}

	var unavailable *ServiceUnavailableError
	if errors.As(err, &unavailable) {
		return ErrorTypeServiceUnavailable
	}
	return ErrorTypeInternal
}
