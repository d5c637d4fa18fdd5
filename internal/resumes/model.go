package resumes

import (
	"time"

	"cvbuilder-backend/internal/policy"
)

// Resume is the persisted CV. Sections reuse the policy input types so a
// validated payload is stored exactly as submitted.
type Resume struct {
	ID             string                      `json:"id"`
	OwnerID        string                      `json:"ownerId"`
	Title          string                      `json:"title"`
	Layout         policy.Layout               `json:"layout"`
	Status         policy.Status               `json:"status"`
	Public         bool                        `json:"public"`
	BasicDetails   policy.BasicDetails         `json:"basicDetails"`
	Education      []policy.EducationEntry     `json:"education"`
	Experience     []policy.ExperienceEntry    `json:"experience"`
	Projects       []policy.ProjectEntry       `json:"projects"`
	Skills         []policy.SkillEntry         `json:"skills"`
	SocialProfiles []policy.SocialProfileEntry `json:"socialProfiles"`
	PhotoKey       string                      `json:"-"`
	HasPhoto       bool                        `json:"hasPhoto"`
	DownloadCount  int64                       `json:"downloadCount"`
	ShareCount     int64                       `json:"shareCount"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// Snapshot shapes the résumé for the policy layer's permission checks.
func (r Resume) Snapshot() policy.Resume {
	return policy.Resume{ID: r.ID, OwnerID: r.OwnerID, Status: r.Status}
}

func (r Resume) withPhotoFlag() Resume {
	r.HasPhoto = r.PhotoKey != ""
	return r
}
