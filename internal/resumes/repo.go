package resumes

import (
	"context"

	"cvbuilder-backend/internal/usage"
)

// Repo defines persistence operations for résumés. RecordDownload and
// RecordShare must increment their counter and append the activity event
// atomically: concurrent requests for the same résumé may not lose updates.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Resume, error)
	Update(ctx context.Context, r Resume) (Resume, error)
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	RecordDownload(ctx context.Context, id, accountID string) (Resume, error)
	RecordShare(ctx context.Context, id, accountID string) (Resume, error)
	SetPhotoKey(ctx context.Context, id, photoKey string) error
}

// EventRecorder receives activity events from repositories that cannot
// write them inside their own transaction (the in-memory repo).
type EventRecorder interface {
	RecordEvent(ctx context.Context, e usage.Event) error
}
