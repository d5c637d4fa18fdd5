package policy

// Denial reasons for ownership and state checks.
const (
	ReasonAccountInactive      = "account not active"
	ReasonVerificationRequired = "verification required"
	ReasonNotOwner             = "not owner"
	ReasonMustBePublished      = "must be published"
)

// CanCreateResume reports whether the account may create résumés at all.
// Quota is a separate question answered by CanCreateMoreResumes.
func CanCreateResume(env Environment, account Account) Decision {
	if !account.Active {
		return deny(ReasonAccountInactive)
	}
	if env.RequireEmailVerification && !account.OAuthLinked && !account.Verified {
		return deny(ReasonVerificationRequired)
	}
	return allow()
}

// CanModifyResume reports whether the account may update or delete the
// résumé. Only the owner may; admins bypass the ownership check.
func CanModifyResume(account Account, resume Resume) Decision {
	if !ownerOrAdmin(account, resume) {
		return deny(ReasonNotOwner)
	}
	return allow()
}

// CanDownloadResume reports whether the account may download the résumé.
// The published-status requirement only applies when the environment turns
// it on; by default owners may download drafts.
func CanDownloadResume(env Environment, account Account, resume Resume) Decision {
	if !ownerOrAdmin(account, resume) {
		return deny(ReasonNotOwner)
	}
	if env.RequirePublishedForDownload && resume.Status != StatusPublished {
		return deny(ReasonMustBePublished)
	}
	return allow()
}

// CanShareResume reports whether the account may share the résumé. Sharing
// always requires published status.
func CanShareResume(account Account, resume Resume) Decision {
	if !ownerOrAdmin(account, resume) {
		return deny(ReasonNotOwner)
	}
	if resume.Status != StatusPublished {
		return deny(ReasonMustBePublished)
	}
	return allow()
}

func ownerOrAdmin(account Account, resume Resume) bool {
	return account.ID == resume.OwnerID || account.Role == RoleAdmin
}
