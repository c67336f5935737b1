package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrPasswordChangeRequired = errors.New("password change required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Persistence errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Errors that refine the common ones above. errors.Is matches both the refined and the base error.
var (
	ErrTokenExpired    = fmt.Errorf("%w: token expired", ErrTokenInvalid)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrResourceNotFound)
	ErrStudentNotFound = fmt.Errorf("%w: student not found", ErrResourceNotFound)
	ErrDuplicateUser   = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrDuplicateUsn    = fmt.Errorf("%w: usn already exists", ErrConflict)
	ErrDuplicateEmail  = fmt.Errorf("%w: email already exists", ErrConflict)
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying field-level details
func NewValidationError(message string, fields map[string]string) *CustomError {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: details,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
