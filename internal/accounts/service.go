package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/shared/auth"
	"cvbuilder-backend/internal/shared/crypto"
)

// Service contains account lifecycle logic: registration, login, email
// verification, profile management, and the upgrade hook the payment
// collaborator calls after settlement.
type Service struct {
	Repo   Repo
	Tokens *auth.Manager
}

// NewService constructs a Service.
func NewService(repo Repo, tokens *auth.Manager) *Service {
	return &Service{Repo: repo, Tokens: tokens}
}

// Session is the result of a successful registration or login.
type Session struct {
	Account   Account
	Token     string
	ExpiresAt time.Time
}

// Register validates the payload, hashes the password, and creates a
// standard-role account. The returned verification token is handed to the
// mail collaborator; the caller confirms it through VerifyEmail.
func (s *Service) Register(ctx context.Context, in policy.RegistrationInput) (Session, string, error) {
	if err := validationError(policy.ValidateRegistration(in)); err != nil {
		return Session{}, "", err
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return Session{}, "", fmt.Errorf("generate salt: %w", err)
	}

	now := time.Now().UTC()
	account := Account{
		ID:            uuid.NewString(),
		Username:      strings.TrimSpace(in.Username),
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  crypto.HashPassword([]byte(in.Password), salt),
		PasswordSalt:  salt,
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Role:          policy.RoleStandard,
		Active:        true,
		Verified:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(ctx, account); err != nil {
		return Session{}, "", err
	}

	session, err := s.startSession(account)
	if err != nil {
		return Session{}, "", err
	}
	verifyToken, err := s.Tokens.IssueVerificationToken(account.ID)
	if err != nil {
		return Session{}, "", fmt.Errorf("issue verification token: %w", err)
	}
	return session, verifyToken, nil
}

// Login checks credentials and opens a session. Unknown emails, missing
// local passwords, and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in policy.LoginInput) (Session, error) {
	if err := validationError(policy.ValidateLogin(in)); err != nil {
		return Session{}, err
	}

	account, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !account.HasPassword() {
		return Session{}, ErrInvalidCredentials
	}
	if !crypto.VerifyPassword([]byte(in.Password), account.PasswordSalt, account.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}
	if !account.Active {
		return Session{}, ErrAccountInactive
	}

	return s.startSession(account)
}

// VerifyEmail consumes a verification token and flips the verified flag.
func (s *Service) VerifyEmail(ctx context.Context, token string) (Account, error) {
	accountID, err := s.Tokens.ParseVerificationToken(token)
	if err != nil {
		return Account{}, err
	}
	if err := s.Repo.SetVerified(ctx, accountID, true); err != nil {
		return Account{}, err
	}
	return s.Repo.GetByID(ctx, accountID)
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateProfile validates and rewrites the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id string, in policy.ProfileInput) (Account, error) {
	if err := validationError(policy.ValidateProfileUpdate(in)); err != nil {
		return Account{}, err
	}
	return s.Repo.UpdateProfile(ctx, id,
		strings.TrimSpace(in.Username),
		strings.TrimSpace(in.Email),
		strings.TrimSpace(in.ContactNumber),
	)
}

// ChangePassword verifies the current password and installs a new one.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	account, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.HasPassword() {
		return ErrNoLocalPassword
	}
	if !crypto.VerifyPassword([]byte(current), account.PasswordSalt, account.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := validationError(policy.ValidatePassword(next)); err != nil {
		return err
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	return s.Repo.UpdatePassword(ctx, id, crypto.HashPassword([]byte(next), salt), salt)
}

// Upgrade moves a standard account to premium. The payment collaborator
// calls this after settlement; repeating it is a no-op, and admins keep
// their role.
func (s *Service) Upgrade(ctx context.Context, id string) (Account, error) {
	account, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if account.Role != policy.RoleStandard {
		return account, nil
	}
	return s.Repo.SetRole(ctx, id, policy.RolePremium)
}

// Deactivate flips the active flag off. Accounts are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.Repo.SetActive(ctx, id, false)
}

// OAuthProfile is the identity returned by the OAuth provider's userinfo
// endpoint.
type OAuthProfile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// UpsertFromOAuth finds or creates the account for an OAuth login. Accounts
// reached this way are always verified: either created verified, or linked
// to a local account whose email the provider has confirmed.
func (s *Service) UpsertFromOAuth(ctx context.Context, prof OAuthProfile) (Account, error) {
	if prof.GoogleID == "" || prof.Email == "" {
		return Account{}, errors.New("oauth profile requires google id and email")
	}

	if account, err := s.Repo.GetByGoogleID(ctx, prof.GoogleID); err == nil {
		return s.Repo.LinkGoogle(ctx, account.ID, prof.GoogleID, prof.Picture)
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	if account, err := s.Repo.GetByEmail(ctx, prof.Email); err == nil {
		return s.Repo.LinkGoogle(ctx, account.ID, prof.GoogleID, prof.Picture)
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	return s.createFromOAuth(ctx, prof)
}

// SessionFromOAuth upserts the account for the OAuth profile and starts a
// session. Deactivated accounts cannot sign back in this way.
func (s *Service) SessionFromOAuth(ctx context.Context, prof OAuthProfile) (Session, error) {
	account, err := s.UpsertFromOAuth(ctx, prof)
	if err != nil {
		return Session{}, err
	}
	if !account.Active {
		return Session{}, ErrAccountInactive
	}
	return s.startSession(account)
}

func (s *Service) createFromOAuth(ctx context.Context, prof OAuthProfile) (Account, error) {
	base := usernameFromEmail(prof.Email)
	username := base
	for attempt := 0; ; attempt++ {
		now := time.Now().UTC()
		account := Account{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     strings.TrimSpace(prof.Email),
			Role:      policy.RoleStandard,
			Active:    true,
			Verified:  true,
			GoogleID:  prof.GoogleID,
			Picture:   prof.Picture,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.Repo.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, ErrUsernameTaken) || attempt >= 4 {
			return Account{}, err
		}
		username = suffixUsername(base)
	}
}

func (s *Service) startSession(account Account) (Session, error) {
	token, expiresAt, err := s.Tokens.IssueAccessToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	return Session{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

// usernameFromEmail derives a policy-conformant username from the email
// local part: disallowed characters become underscores and the result is
// forced into the 3-30 length window.
func usernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	var b strings.Builder
	for i := 0; i < len(local); i++ {
		c := local[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if len(name) < policy.UsernameMinLength {
		name = "user" + name
	}
	if len(name) > policy.UsernameMaxLength {
		name = name[:policy.UsernameMaxLength]
	}
	return name
}

func suffixUsername(base string) string {
	suffix := "_" + uuid.NewString()[:8]
	if len(base)+len(suffix) > policy.UsernameMaxLength {
		base = base[:policy.UsernameMaxLength-len(suffix)]
	}
	return base + suffix
}
