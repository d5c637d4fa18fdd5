package usage

import (
	"context"
	"time"

	"cvbuilder-backend/internal/policy"
)

// Store persists and counts activity events.
type Store interface {
	CountEvents(ctx context.Context, accountID, action string, since time.Time) (int, error)
	RecordEvent(ctx context.Context, e Event) error
}

// ResumeCounter reports how many résumés an account currently owns. The
// résumé repository satisfies this.
type ResumeCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// Service derives the usage counters quota decisions are made from. The
// quota window is the current calendar month in server-local time.
type Service struct {
	Events  Store
	Resumes ResumeCounter

	// Now is a clock seam for tests. Nil means time.Now.
	Now func() time.Time
}

// NewService constructs a Service.
func NewService(events Store, resumes ResumeCounter) *Service {
	return &Service{Events: events, Resumes: resumes}
}

// MonthStart returns the first instant of the current month.
func (s *Service) MonthStart() time.Time {
	now := s.clock()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// NextReset returns the first instant of the next month, when the monthly
// counters roll over.
func (s *Service) NextReset() time.Time {
	return s.MonthStart().AddDate(0, 1, 0)
}

// DownloadsThisMonth counts the account's downloads in the current window.
func (s *Service) DownloadsThisMonth(ctx context.Context, accountID string) (int, error) {
	return s.Events.CountEvents(ctx, accountID, ActionDownload, s.MonthStart())
}

// SharesThisMonth counts the account's shares in the current window.
func (s *Service) SharesThisMonth(ctx context.Context, accountID string) (int, error) {
	return s.Events.CountEvents(ctx, accountID, ActionShare, s.MonthStart())
}

// Summary combines owned résumés with the month's downloads and shares and
// the role limits that apply to them.
func (s *Service) Summary(ctx context.Context, accountID string, role policy.Role) (Summary, error) {
	owned, err := s.Resumes.CountByOwner(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}
	downloads, err := s.DownloadsThisMonth(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}
	shares, err := s.SharesThisMonth(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Role:      role,
		Resumes:   Quota{Used: owned, Limit: policy.ResumeLimit(role)},
		Downloads: Quota{Used: downloads, Limit: policy.DownloadLimit(role)},
		Shares:    Quota{Used: shares, Limit: policy.ShareLimit(role)},
		ResetsAt:  s.NextReset(),
	}, nil
}

func (s *Service) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
