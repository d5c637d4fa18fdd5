package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"cvbuilder-backend/internal/policy"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode and
// tests. Uniqueness is enforced case-insensitively like the PG indexes.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Account // id -> account
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Account)}
}

// Create stores a new account, rejecting duplicate usernames and emails.
func (r *MemoryRepo) Create(ctx context.Context, a Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if strings.EqualFold(existing.Username, a.Username) {
			return ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrEmailTaken
		}
	}
	r.data[a.ID] = a
	return nil
}

// GetByID returns the account with the given id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

// GetByEmail returns the account with the given email.
func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

// GetByGoogleID returns the account linked to the given Google subject.
func (r *MemoryRepo) GetByGoogleID(ctx context.Context, googleID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data {
		if a.GoogleID != "" && a.GoogleID == googleID {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

// UpdateProfile rewrites the mutable profile fields.
func (r *MemoryRepo) UpdateProfile(ctx context.Context, id, username, email, contactNumber string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	for otherID, existing := range r.data {
		if otherID == id {
			continue
		}
		if strings.EqualFold(existing.Username, username) {
			return Account{}, ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, email) {
			return Account{}, ErrEmailTaken
		}
	}
	a.Username = username
	a.Email = email
	a.ContactNumber = contactNumber
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return a, nil
}

// UpdatePassword replaces the password credential.
func (r *MemoryRepo) UpdatePassword(ctx context.Context, id string, hash, salt []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = append([]byte(nil), hash...)
	a.PasswordSalt = append([]byte(nil), salt...)
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return nil
}

// SetVerified writes the email verification flag.
func (r *MemoryRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	a.Verified = verified
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return nil
}

// SetRole writes the account role.
func (r *MemoryRepo) SetRole(ctx context.Context, id string, role policy.Role) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	a.Role = role
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return a, nil
}

// SetActive writes the activity flag.
func (r *MemoryRepo) SetActive(ctx context.Context, id string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	a.Active = active
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return nil
}

// LinkGoogle attaches a Google subject to an existing account and marks it
// verified.
func (r *MemoryRepo) LinkGoogle(ctx context.Context, id, googleID, picture string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	a.GoogleID = googleID
	if picture != "" {
		a.Picture = picture
	}
	a.Verified = true
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return a, nil
}

var _ Repo = (*MemoryRepo)(nil)
