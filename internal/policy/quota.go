package policy

import "fmt"

// CanCreateMoreResumes decides whether an account owning `owned` résumés may
// create another. The comparison is strict: reaching the limit denies the
// next attempt.
func CanCreateMoreResumes(role Role, owned int) Decision {
	limit := ResumeLimit(role)
	if limit == Unlimited || owned < limit {
		return allow()
	}
	reason := fmt.Sprintf("Maximum CV limit reached (%d).", limit)
	if role == RoleStandard {
		reason += " Upgrade to premium for more CVs."
	}
	return deny(reason)
}

// CanDownloadMore decides whether an account that has downloaded
// `usedThisMonth` times this calendar month may download again.
func CanDownloadMore(role Role, usedThisMonth int) Decision {
	limit := DownloadLimit(role)
	if limit == Unlimited || usedThisMonth < limit {
		return allow()
	}
	reason := fmt.Sprintf("Monthly download limit reached (%d).", limit)
	if role == RoleStandard {
		reason += " Upgrade to premium for more downloads."
	}
	return deny(reason)
}

// CanShareMore decides whether an account that has shared `usedThisMonth`
// times this calendar month may share again.
func CanShareMore(role Role, usedThisMonth int) Decision {
	limit := ShareLimit(role)
	if limit == Unlimited || usedThisMonth < limit {
		return allow()
	}
	reason := fmt.Sprintf("Monthly share limit reached (%d).", limit)
	if role == RoleStandard {
		reason += " Upgrade to premium for more shares."
	}
	return deny(reason)
}
