package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInactiveAccount indicates that an account referenced by an operation is inactive or soft-deleted.
var ErrInactiveAccount = errors.New("account is inactive")

// ErrUnbalancedEntry indicates that the debit and credit sides of an entry differ.
var ErrUnbalancedEntry = errors.New("entry is unbalanced")

// ErrPeriodClosed indicates an attempt to create or mutate entries of a closed (or closing) period.
var ErrPeriodClosed = errors.New("accounting period is closed")

// ErrOverlap indicates that a new accounting period intersects an existing one.
var ErrOverlap = errors.New("accounting period overlaps an existing period")

// ErrConflict indicates that the current state of a resource prevents the operation.
var ErrConflict = errors.New("conflicting resource state")

// ErrContention indicates that a lock could not be acquired in time. Callers may retry.
var ErrContention = errors.New("resource busy, retry later")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower level error with an HTTP-ish status code and a message.
// Repositories use it to annotate driver failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// IsRetryable reports whether the caller may safely retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}
