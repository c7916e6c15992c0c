package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("request was changed by another reviewer")
	ErrValidation        = errors.New("validation failed")

	// ErrInvalidCredentials is returned by login for any wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError describes a malformed payload. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func transitionError(from, to interface{}) error {
	return fmt.Errorf("%w: %v -> %v", ErrInvalidTransition, from, to)
}

// ErrorCode returns the stable code for err used in API responses and metrics.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrInvalidCredentials):
		return "UNAUTHORIZED"
	}
	return "INTERNAL"
}
