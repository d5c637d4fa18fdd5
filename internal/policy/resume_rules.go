package policy

import (
	"fmt"
	"net/url"
	"strings"
)

// BasicDetails is the résumé header block.
type BasicDetails struct {
	FullName      string `json:"fullName"`
	Introduction  string `json:"introduction,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

// EducationEntry is one education row on a résumé.
type EducationEntry struct {
	DegreeName  string   `json:"degreeName"`
	Institution string   `json:"institution"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
	CGPA        *float64 `json:"cgpa,omitempty"`
}

// ExperienceEntry is one work-experience row on a résumé.
type ExperienceEntry struct {
	OrganizationName string `json:"organizationName"`
	Position         string `json:"position"`
	JoiningDate      string `json:"joiningDate"`
	LeavingDate      string `json:"leavingDate,omitempty"`
	Description      string `json:"description,omitempty"`
}

// ProjectEntry is one project row on a résumé.
type ProjectEntry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TeamSize    *int   `json:"teamSize,omitempty"`
}

// SkillEntry is one skill row on a résumé.
type SkillEntry struct {
	SkillName             string        `json:"skillName"`
	ProficiencyPercentage int           `json:"proficiencyPercentage"`
	Category              SkillCategory `json:"category"`
}

// SocialProfileEntry is one social link on a résumé.
type SocialProfileEntry struct {
	PlatformName string `json:"platformName"`
	ProfileURL   string `json:"profileUrl"`
}

// ValidateTitle checks the résumé title: required, trimmed length 3-100.
func ValidateTitle(title string) []Violation {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return []Violation{violation("title", "title is required")}
	}
	if len(trimmed) < TitleMinLength || len(trimmed) > TitleMaxLength {
		return []Violation{violation("title", fmt.Sprintf("title must be between %d and %d characters", TitleMinLength, TitleMaxLength))}
	}
	return nil
}

// ValidateResumeLayout checks the résumé layout selection.
func ValidateResumeLayout(layout Layout) []Violation {
	if layout == "" {
		return []Violation{violation("layout", "layout is required")}
	}
	if !ValidLayout(layout) {
		return []Violation{violation("layout", "layout must be one of modern, classic, creative")}
	}
	return nil
}

// ValidateResumeStatus checks the résumé status value. Any known status may
// replace any other; there is no transition machine.
func ValidateResumeStatus(status Status) []Violation {
	if !ValidStatus(status) {
		return []Violation{violation("status", "status must be one of draft, published, archived")}
	}
	return nil
}

// ValidateBasicDetails checks the header block: full name required (trimmed
// 2-50), introduction at most 1000 characters, contact number optional.
func ValidateBasicDetails(details BasicDetails) []Violation {
	var out []Violation
	name := strings.TrimSpace(details.FullName)
	if name == "" {
		out = append(out, violation("basicDetails.fullName", "full name is required"))
	} else if len(name) < FullNameMinLength || len(name) > FullNameMaxLength {
		out = append(out, violation("basicDetails.fullName", fmt.Sprintf("full name must be between %d and %d characters", FullNameMinLength, FullNameMaxLength)))
	}
	if len(details.Introduction) > IntroductionMaxLength {
		out = append(out, violation("basicDetails.introduction", fmt.Sprintf("introduction must be %d characters or fewer", IntroductionMaxLength)))
	}
	for _, v := range ValidateContactNumber(details.ContactNumber) {
		out = append(out, violation("basicDetails.contactNumber", v.Message))
	}
	return out
}

// ValidateEducation checks the education section: at most 10 entries, each
// with degree name, institution, and start date; percentage within [0,100]
// and CGPA within [0,10] when present.
func ValidateEducation(entries []EducationEntry) []Violation {
	var out []Violation
	if len(entries) > MaxEducationEntries {
		out = append(out, violation("education", fmt.Sprintf("at most %d education entries are allowed", MaxEducationEntries)))
	}
	for i, e := range entries {
		prefix := fmt.Sprintf("education[%d].", i)
		if strings.TrimSpace(e.DegreeName) == "" {
			out = append(out, violation(prefix+"degreeName", "degree name is required"))
		}
		if strings.TrimSpace(e.Institution) == "" {
			out = append(out, violation(prefix+"institution", "institution is required"))
		}
		if strings.TrimSpace(e.StartDate) == "" {
			out = append(out, violation(prefix+"startDate", "start date is required"))
		}
		if e.Percentage != nil && (*e.Percentage < 0 || *e.Percentage > 100) {
			out = append(out, violation(prefix+"percentage", "percentage must be between 0 and 100"))
		}
		if e.CGPA != nil && (*e.CGPA < 0 || *e.CGPA > 10) {
			out = append(out, violation(prefix+"cgpa", "cgpa must be between 0 and 10"))
		}
	}
	return out
}

// ValidateExperience checks the experience section: at most 20 entries, each
// with organization name, position, and joining date.
func ValidateExperience(entries []ExperienceEntry) []Violation {
	var out []Violation
	if len(entries) > MaxExperienceEntries {
		out = append(out, violation("experience", fmt.Sprintf("at most %d experience entries are allowed", MaxExperienceEntries)))
	}
	for i, e := range entries {
		prefix := fmt.Sprintf("experience[%d].", i)
		if strings.TrimSpace(e.OrganizationName) == "" {
			out = append(out, violation(prefix+"organizationName", "organization name is required"))
		}
		if strings.TrimSpace(e.Position) == "" {
			out = append(out, violation(prefix+"position", "position is required"))
		}
		if strings.TrimSpace(e.JoiningDate) == "" {
			out = append(out, violation(prefix+"joiningDate", "joining date is required"))
		}
	}
	return out
}

// ValidateProjects checks the projects section: at most 15 entries, each
// with a title of 3-100 characters and, when present, a team size of at
// least one.
func ValidateProjects(entries []ProjectEntry) []Violation {
	var out []Violation
	if len(entries) > MaxProjectEntries {
		out = append(out, violation("projects", fmt.Sprintf("at most %d project entries are allowed", MaxProjectEntries)))
	}
	for i, p := range entries {
		prefix := fmt.Sprintf("projects[%d].", i)
		title := strings.TrimSpace(p.Title)
		if title == "" {
			out = append(out, violation(prefix+"title", "project title is required"))
		} else if len(title) < TitleMinLength || len(title) > TitleMaxLength {
			out = append(out, violation(prefix+"title", fmt.Sprintf("project title must be between %d and %d characters", TitleMinLength, TitleMaxLength)))
		}
		if p.TeamSize != nil && *p.TeamSize < 1 {
			out = append(out, violation(prefix+"teamSize", "team size must be at least 1"))
		}
	}
	return out
}

// ValidateSkills checks the skills section: at most 50 entries, each with a
// name of 2-50 characters, a proficiency within [0,100], and a known
// category.
func ValidateSkills(entries []SkillEntry) []Violation {
	var out []Violation
	if len(entries) > MaxSkillEntries {
		out = append(out, violation("skills", fmt.Sprintf("at most %d skill entries are allowed", MaxSkillEntries)))
	}
	for i, s := range entries {
		prefix := fmt.Sprintf("skills[%d].", i)
		name := strings.TrimSpace(s.SkillName)
		if name == "" {
			out = append(out, violation(prefix+"skillName", "skill name is required"))
		} else if len(name) < SkillNameMinLength || len(name) > SkillNameMaxLength {
			out = append(out, violation(prefix+"skillName", fmt.Sprintf("skill name must be between %d and %d characters", SkillNameMinLength, SkillNameMaxLength)))
		}
		if s.ProficiencyPercentage < 0 || s.ProficiencyPercentage > 100 {
			out = append(out, violation(prefix+"proficiencyPercentage", "proficiency percentage must be between 0 and 100"))
		}
		if !ValidSkillCategory(s.Category) {
			out = append(out, violation(prefix+"category", "category must be one of technical, interpersonal, language"))
		}
	}
	return out
}

// ValidateSocialProfiles checks the social links section: at most 10
// entries, each with a platform name and a syntactically valid URL.
func ValidateSocialProfiles(entries []SocialProfileEntry) []Violation {
	var out []Violation
	if len(entries) > MaxSocialProfileEntries {
		out = append(out, violation("socialProfiles", fmt.Sprintf("at most %d social profiles are allowed", MaxSocialProfileEntries)))
	}
	for i, p := range entries {
		prefix := fmt.Sprintf("socialProfiles[%d].", i)
		if strings.TrimSpace(p.PlatformName) == "" {
			out = append(out, violation(prefix+"platformName", "platform name is required"))
		}
		rawURL := strings.TrimSpace(p.ProfileURL)
		if rawURL == "" {
			out = append(out, violation(prefix+"profileUrl", "profile url is required"))
		} else if !validProfileURL(rawURL) {
			out = append(out, violation(prefix+"profileUrl", "profile url must be a valid URL"))
		}
	}
	return out
}

// ResumeCreateInput is the payload validated at résumé creation.
type ResumeCreateInput struct {
	Title        string       `json:"title"`
	Layout       Layout       `json:"layout"`
	BasicDetails BasicDetails `json:"basicDetails"`
}

// ValidateResumeCreate concatenates the creation field validators in a fixed
// order: title, layout, basic details.
func ValidateResumeCreate(in ResumeCreateInput) []Violation {
	var out []Violation
	out = append(out, ValidateTitle(in.Title)...)
	out = append(out, ValidateResumeLayout(in.Layout)...)
	out = append(out, ValidateBasicDetails(in.BasicDetails)...)
	return out
}

// ResumeUpdateInput is the payload validated at résumé update. Section lists
// replace the stored sections wholesale.
type ResumeUpdateInput struct {
	Title          string               `json:"title"`
	Layout         Layout               `json:"layout"`
	Status         Status               `json:"status"`
	Public         bool                 `json:"public"`
	BasicDetails   BasicDetails         `json:"basicDetails"`
	Education      []EducationEntry     `json:"education"`
	Experience     []ExperienceEntry    `json:"experience"`
	Projects       []ProjectEntry       `json:"projects"`
	Skills         []SkillEntry         `json:"skills"`
	SocialProfiles []SocialProfileEntry `json:"socialProfiles"`
}

// ValidateResumeUpdate concatenates the update field validators in a fixed
// order: title, layout, status, basic details, then each section.
func ValidateResumeUpdate(in ResumeUpdateInput) []Violation {
	var out []Violation
	out = append(out, ValidateTitle(in.Title)...)
	out = append(out, ValidateResumeLayout(in.Layout)...)
	out = append(out, ValidateResumeStatus(in.Status)...)
	out = append(out, ValidateBasicDetails(in.BasicDetails)...)
	out = append(out, ValidateEducation(in.Education)...)
	out = append(out, ValidateExperience(in.Experience)...)
	out = append(out, ValidateProjects(in.Projects)...)
	out = append(out, ValidateSkills(in.Skills)...)
	out = append(out, ValidateSocialProfiles(in.SocialProfiles)...)
	return out
}

func validProfileURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
