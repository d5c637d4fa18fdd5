package resumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"cvbuilder-backend/internal/usage"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode and
// tests. Events go to the recorder since there is no transaction to join.
type MemoryRepo struct {
	mu     sync.RWMutex
	data   map[string]Resume
	events EventRecorder
}

// NewMemoryRepo constructs a MemoryRepo. events may be nil when activity
// recording is not needed.
func NewMemoryRepo(events EventRecorder) *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume), events: events}
}

// Create stores a new résumé.
func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.ID] = res.withPhotoFlag()
	return nil
}

// GetByID returns the résumé with the given id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// ListByOwner returns the account's résumés, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Resume
	for _, res := range r.data {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites the editable fields and sections, keeping counters and
// the photo key.
func (r *MemoryRepo) Update(ctx context.Context, res Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[res.ID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	existing.Title = res.Title
	existing.Layout = res.Layout
	existing.Status = res.Status
	existing.Public = res.Public
	existing.BasicDetails = res.BasicDetails
	existing.Education = res.Education
	existing.Experience = res.Experience
	existing.Projects = res.Projects
	existing.Skills = res.Skills
	existing.SocialProfiles = res.SocialProfiles
	existing.UpdatedAt = time.Now().UTC()
	r.data[res.ID] = existing
	return existing, nil
}

// Delete removes the résumé.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// CountByOwner counts the résumés the account currently owns.
func (r *MemoryRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, res := range r.data {
		if res.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// RecordDownload increments the download counter and records the event.
func (r *MemoryRepo) RecordDownload(ctx context.Context, id, accountID string) (Resume, error) {
	return r.recordAction(ctx, id, accountID, usage.ActionDownload)
}

// RecordShare increments the share counter, marks the résumé public, and
// records the event.
func (r *MemoryRepo) RecordShare(ctx context.Context, id, accountID string) (Resume, error) {
	return r.recordAction(ctx, id, accountID, usage.ActionShare)
}

// SetPhotoKey stores the object-store key of the résumé photo.
func (r *MemoryRepo) SetPhotoKey(ctx context.Context, id, photoKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	res.PhotoKey = photoKey
	res.UpdatedAt = time.Now().UTC()
	r.data[id] = res.withPhotoFlag()
	return nil
}

func (r *MemoryRepo) recordAction(ctx context.Context, id, accountID, action string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}

	r.mu.Lock()
	res, ok := r.data[id]
	if !ok {
		r.mu.Unlock()
		return Resume{}, ErrNotFound
	}
	switch action {
	case usage.ActionDownload:
		res.DownloadCount++
	case usage.ActionShare:
		res.ShareCount++
		res.Public = true
	}
	res.UpdatedAt = time.Now().UTC()
	r.data[id] = res
	r.mu.Unlock()

	if r.events != nil {
		event := usage.Event{
			AccountID:  accountID,
			ResumeID:   id,
			Action:     action,
			OccurredAt: time.Now().UTC(),
		}
		if err := r.events.RecordEvent(ctx, event); err != nil {
			return Resume{}, err
		}
	}
	return res, nil
}

var _ Repo = (*MemoryRepo)(nil)
