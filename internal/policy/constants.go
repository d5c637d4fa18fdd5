package policy

// Role determines quota limits; admins additionally bypass ownership checks.
type Role string

const (
	RoleStandard Role = "standard"
	RolePremium  Role = "premium"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStandard, RolePremium, RoleAdmin:
		return true
	}
	return false
}

// Status is the résumé lifecycle state. Transitions are unconstrained: any
// status may be set to any other at update time.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Layout selects the résumé template.
type Layout string

const (
	LayoutModern   Layout = "modern"
	LayoutClassic  Layout = "classic"
	LayoutCreative Layout = "creative"
)

// ValidLayout reports whether l is one of the known layouts.
func ValidLayout(l Layout) bool {
	switch l {
	case LayoutModern, LayoutClassic, LayoutCreative:
		return true
	}
	return false
}

// SkillCategory groups skills on the rendered résumé.
type SkillCategory string

const (
	SkillTechnical     SkillCategory = "technical"
	SkillInterpersonal SkillCategory = "interpersonal"
	SkillLanguage      SkillCategory = "language"
)

// ValidSkillCategory reports whether c is one of the known categories.
func ValidSkillCategory(c SkillCategory) bool {
	switch c {
	case SkillTechnical, SkillInterpersonal, SkillLanguage:
		return true
	}
	return false
}

// Field length bounds.
const (
	UsernameMinLength     = 3
	UsernameMaxLength     = 30
	PasswordMinLength     = 8
	PasswordMaxLength     = 128
	TitleMinLength        = 3
	TitleMaxLength        = 100
	FullNameMinLength     = 2
	FullNameMaxLength     = 50
	IntroductionMaxLength = 1000
	SkillNameMinLength    = 2
	SkillNameMaxLength    = 50
)

// Section entry caps per résumé.
const (
	MaxEducationEntries     = 10
	MaxExperienceEntries    = 20
	MaxProjectEntries       = 15
	MaxSkillEntries         = 50
	MaxSocialProfileEntries = 10
)

// Unlimited marks a quota with no cap.
const Unlimited = -1

// Quota limits by role.
const (
	MaxResumesStandard       = 10
	MonthlyDownloadsStandard = 3
	MonthlyDownloadsPremium  = 50
	MonthlySharesStandard    = 5
	MonthlySharesPremium     = 100
)

// ResumeLimit returns the maximum number of résumés the role may own.
func ResumeLimit(role Role) int {
	if role == RoleStandard {
		return MaxResumesStandard
	}
	return Unlimited
}

// DownloadLimit returns the role's monthly download allowance.
func DownloadLimit(role Role) int {
	if role == RoleStandard {
		return MonthlyDownloadsStandard
	}
	return MonthlyDownloadsPremium
}

// ShareLimit returns the role's monthly share allowance.
func ShareLimit(role Role) int {
	if role == RoleStandard {
		return MonthlySharesStandard
	}
	return MonthlySharesPremium
}
