package accounts

import (
	"errors"

	"cvbuilder-backend/internal/policy"
)

var (
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot probe which addresses are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrAccountInactive = errors.New("account not active")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrNoLocalPassword = errors.New("account has no local password")
)

// ValidationError carries the field violations of a rejected payload.
type ValidationError struct {
	Violations []policy.Violation
}

func (e *ValidationError) Error() string {
	return policy.FormatViolations(e.Violations)
}

func validationError(violations []policy.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
