package accounts

import (
	"time"

	"cvbuilder-backend/internal/policy"
)

// Account represents a registered identity. Password credentials are
// nullable: accounts created through Google OAuth carry no local password.
type Account struct {
	ID            string      `json:"id"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	PasswordHash  []byte      `json:"-"`
	PasswordSalt  []byte      `json:"-"`
	ContactNumber string      `json:"contactNumber,omitempty"`
	Role          policy.Role `json:"role"`
	Active        bool        `json:"active"`
	Verified      bool        `json:"verified"`
	GoogleID      string      `json:"-"`
	Picture       string      `json:"picture,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Snapshot shapes the account for the policy layer's permission checks.
func (a Account) Snapshot() policy.Account {
	return policy.Account{
		ID:          a.ID,
		Role:        a.Role,
		Active:      a.Active,
		Verified:    a.Verified,
		OAuthLinked: a.GoogleID != "",
	}
}

// HasPassword reports whether the account can authenticate locally.
func (a Account) HasPassword() bool {
	return len(a.PasswordHash) > 0 && len(a.PasswordSalt) > 0
}
