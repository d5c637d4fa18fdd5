package policy

import (
	"strings"
	"testing"
)

func TestCanCreateMoreResumes(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		owned   int
		allowed bool
	}{
		{name: "standard_under_limit", role: RoleStandard, owned: 9, allowed: true},
		{name: "standard_at_limit", role: RoleStandard, owned: 10, allowed: false},
		{name: "standard_over_limit", role: RoleStandard, owned: 11, allowed: false},
		{name: "premium_far_over", role: RolePremium, owned: 10000, allowed: true},
		{name: "admin_far_over", role: RoleAdmin, owned: 10000, allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanCreateMoreResumes(tc.role, tc.owned)
			if got.Allowed != tc.allowed {
				t.Fatalf("expected allowed=%v, got %+v", tc.allowed, got)
			}
		})
	}
}

func TestCanCreateMoreResumesDenialMessage(t *testing.T) {
	got := CanCreateMoreResumes(RoleStandard, 10)
	if got.Allowed {
		t.Fatalf("expected denial, got %+v", got)
	}
	if got.Reason != "Maximum CV limit reached (10). Upgrade to premium for more CVs." {
		t.Fatalf("unexpected denial reason %q", got.Reason)
	}
	if !strings.Contains(got.Reason, "10") || !strings.Contains(got.Reason, "Upgrade to premium") {
		t.Fatalf("denial reason must name the limit and the upgrade path, got %q", got.Reason)
	}
}

func TestCanDownloadMore(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		used    int
		allowed bool
		reason  string
	}{
		{name: "standard_under_limit", role: RoleStandard, used: 2, allowed: true},
		{
			name:    "standard_at_limit",
			role:    RoleStandard,
			used:    3,
			allowed: false,
			reason:  "Monthly download limit reached (3). Upgrade to premium for more downloads.",
		},
		{name: "premium_under_limit", role: RolePremium, used: 49, allowed: true},
		{
			name:    "premium_at_limit",
			role:    RolePremium,
			used:    50,
			allowed: false,
			reason:  "Monthly download limit reached (50).",
		},
		{
			name:    "admin_at_limit",
			role:    RoleAdmin,
			used:    50,
			allowed: false,
			reason:  "Monthly download limit reached (50).",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanDownloadMore(tc.role, tc.used)
			if got.Allowed != tc.allowed || got.Reason != tc.reason {
				t.Fatalf("expected allowed=%v reason=%q, got %+v", tc.allowed, tc.reason, got)
			}
		})
	}
}

func TestCanShareMore(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		used    int
		allowed bool
		reason  string
	}{
		{name: "standard_under_limit", role: RoleStandard, used: 4, allowed: true},
		{
			name:    "standard_at_limit",
			role:    RoleStandard,
			used:    5,
			allowed: false,
			reason:  "Monthly share limit reached (5). Upgrade to premium for more shares.",
		},
		{name: "premium_under_limit", role: RolePremium, used: 99, allowed: true},
		{
			name:    "premium_at_limit",
			role:    RolePremium,
			used:    100,
			allowed: false,
			reason:  "Monthly share limit reached (100).",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanShareMore(tc.role, tc.used)
			if got.Allowed != tc.allowed || got.Reason != tc.reason {
				t.Fatalf("expected allowed=%v reason=%q, got %+v", tc.allowed, tc.reason, got)
			}
		})
	}
}

func TestRoleLimits(t *testing.T) {
	if got := ResumeLimit(RoleStandard); got != 10 {
		t.Fatalf("expected standard resume limit 10, got %d", got)
	}
	if got := ResumeLimit(RolePremium); got != Unlimited {
		t.Fatalf("expected premium resume limit to be unlimited, got %d", got)
	}
	if got := ResumeLimit(RoleAdmin); got != Unlimited {
		t.Fatalf("expected admin resume limit to be unlimited, got %d", got)
	}
	if got := DownloadLimit(RoleStandard); got != 3 {
		t.Fatalf("expected standard download limit 3, got %d", got)
	}
	if got := DownloadLimit(RolePremium); got != 50 {
		t.Fatalf("expected premium download limit 50, got %d", got)
	}
	if got := ShareLimit(RoleStandard); got != 5 {
		t.Fatalf("expected standard share limit 5, got %d", got)
	}
	if got := ShareLimit(RoleAdmin); got != 100 {
		t.Fatalf("expected admin share limit 100, got %d", got)
	}
}
