// Package policy contains the pure business rules of the CV builder:
// field validation, ownership and capability checks, and role-based quota
// enforcement. Functions here perform no I/O and hold no state, so results
// depend only on their inputs and the package is safe to call from any
// number of request handlers.
package policy

import "strings"

// Violation describes a single field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Decision is the verdict of a permission or quota check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Account is the identity snapshot permission checks reason about. Callers
// build it from the resolved account row; the policy layer never loads data.
type Account struct {
	ID          string
	Role        Role
	Active      bool
	Verified    bool
	OAuthLinked bool
}

// Resume is the document snapshot permission checks reason about.
type Resume struct {
	ID      string
	OwnerID string
	Status  Status
}

// FormatViolations joins violations into the single user-facing error string
// callers attach to a rejected request.
func FormatViolations(violations []Violation) string {
	if len(violations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, ", ")
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func violation(field, message string) Violation {
	return Violation{Field: field, Message: message}
}
