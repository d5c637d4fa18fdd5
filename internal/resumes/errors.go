package resumes

import (
	"errors"

	"cvbuilder-backend/internal/policy"
)

var (
	ErrNotFound         = errors.New("resume not found")
	ErrNoPhoto          = errors.New("resume has no photo")
	ErrUnsupportedPhoto = errors.New("photo must be a JPEG, PNG, or WebP image")
)

// ValidationError carries the field violations of a rejected payload.
type ValidationError struct {
	Violations []policy.Violation
}

func (e *ValidationError) Error() string {
	return policy.FormatViolations(e.Violations)
}

// PermissionError is a denial from an ownership or state check.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// QuotaError is a denial from a role-based limit.
type QuotaError struct {
	Reason string
}

func (e *QuotaError) Error() string { return e.Reason }

func validationError(violations []policy.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
