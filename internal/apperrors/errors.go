package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInsufficientBalance indicates that a holder cannot cover the requested debit.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrNotOwner indicates that a coupon transfer was attempted by someone who does not hold it.
var ErrNotOwner = errors.New("not the current coupon owner")

// ErrInactivePerk is a validation failure raised when redeeming a disabled perk.
var ErrInactivePerk = fmt.Errorf("%w: perk is not active", ErrValidation)

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the role required for an action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is the opaque error surfaced for infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure failure with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap exposes the cause. AppErrors without a cause unwrap to ErrInternal
// so callers can still classify them.
func (e *AppError) Unwrap() error {
	if e.Err == nil {
		return ErrInternal
	}
	return e.Err
}

// IsClientError reports whether err was caused by the caller's input or the
// current ledger state rather than by infrastructure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrNotOwner)
}
