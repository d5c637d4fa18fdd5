package policy

// Environment carries the deploy-time toggles that vary rule strictness.
// Callers build it once from configuration and pass it explicitly; the
// policy layer never reads ambient process state.
type Environment struct {
	// RequireEmailVerification gates résumé creation for local accounts
	// that have not confirmed their email. OAuth-linked accounts are
	// always treated as verified regardless of this flag.
	RequireEmailVerification bool

	// RequirePublishedForDownload makes downloads demand published status,
	// matching the share rule. Off by default: owners may download drafts.
	RequirePublishedForDownload bool
}

// DefaultEnvironment returns the production defaults.
func DefaultEnvironment() Environment {
	return Environment{
		RequireEmailVerification:    true,
		RequirePublishedForDownload: false,
	}
}
