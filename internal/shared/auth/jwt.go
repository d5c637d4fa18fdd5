// Package auth signs and verifies the API's HS256 tokens: bearer access
// tokens and the single-purpose tokens embedded in email verification links.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure; callers never learn why
// a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// PurposeVerifyEmail marks tokens that may only confirm an email address.
const PurposeVerifyEmail = "verify_email"

// Claims is the identity carried by a token.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Manager holds the signing secret and token lifetimes.
type Manager struct {
	secret    []byte
	accessTTL time.Duration
	verifyTTL time.Duration
}

// NewManager builds a Manager from the configured secret and lifetimes.
func NewManager(secret string, accessTTL, verifyTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, verifyTTL: verifyTTL}
}

// IssueAccessToken mints the bearer token returned at login.
func (m *Manager) IssueAccessToken(accountID, email, role string) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, errors.New("account id is required")
	}
	now := time.Now()
	exp := now.Add(m.accessTTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: email,
		Role:  role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	return signed, exp, err
}

// IssueVerificationToken mints the token embedded in a verification link.
// It carries a purpose claim so it can never be used as an access token.
func (m *Manager) IssueVerificationToken(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is required")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.verifyTTL)),
		},
		Purpose: PurposeVerifyEmail,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// ParseAccessToken verifies a bearer token and returns its claims.
func (m *Manager) ParseAccessToken(token string) (Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.Purpose != "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// ParseVerificationToken verifies a verification token and returns the
// account ID it was issued for.
func (m *Manager) ParseVerificationToken(token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeVerifyEmail {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (m *Manager) parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
