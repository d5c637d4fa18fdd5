package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, time.Hour)

	token, exp, err := m.IssueAccessToken("acc-1", "jo@example.com", "premium")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry %v not in the future", exp)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "acc-1" {
		t.Fatalf("subject=%q, want acc-1", claims.Subject)
	}
	if claims.Email != "jo@example.com" {
		t.Fatalf("email=%q, want jo@example.com", claims.Email)
	}
	if claims.Role != "premium" {
		t.Fatalf("role=%q, want premium", claims.Role)
	}
}

func TestAccessTokenRequiresAccountID(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, time.Hour)
	if _, _, err := m.IssueAccessToken("", "jo@example.com", "standard"); err == nil {
		t.Fatalf("expected error for empty account id")
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, time.Hour)

	token, err := m.IssueVerificationToken("acc-2")
	if err != nil {
		t.Fatalf("IssueVerificationToken: %v", err)
	}

	accountID, err := m.ParseVerificationToken(token)
	if err != nil {
		t.Fatalf("ParseVerificationToken: %v", err)
	}
	if accountID != "acc-2" {
		t.Fatalf("accountID=%q, want acc-2", accountID)
	}
}

func TestTokenPurposesDoNotCross(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, time.Hour)

	verifyToken, err := m.IssueVerificationToken("acc-3")
	if err != nil {
		t.Fatalf("IssueVerificationToken: %v", err)
	}
	if _, err := m.ParseAccessToken(verifyToken); err == nil {
		t.Fatalf("verification token accepted as access token")
	}

	accessToken, _, err := m.IssueAccessToken("acc-3", "", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := m.ParseVerificationToken(accessToken); err == nil {
		t.Fatalf("access token accepted as verification token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("unit-test-secret", -time.Minute, time.Hour)

	token, _, err := m.IssueAccessToken("acc-4", "", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := m.ParseAccessToken(token); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, time.Hour)
	verifier := NewManager("secret-b", time.Hour, time.Hour)

	token, _, err := issuer.IssueAccessToken("acc-5", "", "")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
	if _, err := verifier.ParseAccessToken("not-a-token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}
