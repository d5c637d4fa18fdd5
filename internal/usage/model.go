package usage

import (
	"time"

	"cvbuilder-backend/internal/policy"
)

// Actions recorded in the activity log. Quota windows count these per
// calendar month.
const (
	ActionDownload = "download"
	ActionShare    = "share"
)

// Event is one recorded résumé action.
type Event struct {
	AccountID  string    `json:"accountId"`
	ResumeID   string    `json:"resumeId,omitempty"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Quota pairs consumption with its role limit. Limit is -1 when unlimited.
type Quota struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Summary is an account's consumption snapshot for the current month.
type Summary struct {
	Role      policy.Role `json:"role"`
	Resumes   Quota       `json:"resumes"`
	Downloads Quota       `json:"downloads"`
	Shares    Quota       `json:"shares"`
	ResetsAt  time.Time   `json:"resetsAt"`
}
