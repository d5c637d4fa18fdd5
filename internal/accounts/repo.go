package accounts

import (
	"context"

	"cvbuilder-backend/internal/policy"
)

// Repo defines persistence operations for accounts. Lookups by username,
// email, and google id are case-respecting on output but matched
// case-insensitively, mirroring the unique indexes.
type Repo interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByGoogleID(ctx context.Context, googleID string) (Account, error)
	UpdateProfile(ctx context.Context, id, username, email, contactNumber string) (Account, error)
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	SetVerified(ctx context.Context, id string, verified bool) error
	SetRole(ctx context.Context, id string, role policy.Role) (Account, error)
	SetActive(ctx context.Context, id string, active bool) error
	LinkGoogle(ctx context.Context, id, googleID, picture string) (Account, error)
}
