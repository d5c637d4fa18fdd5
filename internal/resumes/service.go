package resumes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvbuilder-backend/internal/accounts"
	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/shared/metrics"
	"cvbuilder-backend/internal/shared/storage/object"
	"cvbuilder-backend/internal/shared/telemetry"
	"cvbuilder-backend/internal/usage"
)

const maxPhotoSize = 5 << 20 // 5MB

// Service contains résumé business logic. Every mutating operation follows
// the same control flow: resolve the caller's account snapshot, validate the
// payload, check permission, check quota, then mutate.
type Service struct {
	Repo     Repo
	Accounts *accounts.Service
	Usage    *usage.Service
	Store    object.ObjectStore
	Env      policy.Environment

	// PublicBaseURL is the externally visible origin share links point at.
	PublicBaseURL string
}

// Create validates the payload and creates a draft résumé for the account.
func (s *Service) Create(ctx context.Context, accountID string, in policy.ResumeCreateInput) (Resume, error) {
	account, err := s.Accounts.Get(ctx, accountID)
	if err != nil {
		return Resume{}, err
	}

	if err := validationError(policy.ValidateResumeCreate(in)); err != nil {
		return Resume{}, err
	}
	if d := policy.CanCreateResume(s.Env, account.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return Resume{}, &PermissionError{Reason: d.Reason}
	}

	owned, err := s.Repo.CountByOwner(ctx, accountID)
	if err != nil {
		return Resume{}, err
	}
	if d := policy.CanCreateMoreResumes(account.Role, owned); !d.Allowed {
		metrics.IncQuotaDenied("create")
		return Resume{}, &QuotaError{Reason: d.Reason}
	}

	now := time.Now().UTC()
	res := Resume{
		ID:           uuid.NewString(),
		OwnerID:      accountID,
		Title:        strings.TrimSpace(in.Title),
		Layout:       in.Layout,
		Status:       policy.StatusDraft,
		BasicDetails: in.BasicDetails,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		return Resume{}, err
	}
	metrics.IncResumeCreated()
	return res, nil
}

// List returns the account's own résumés, newest first.
func (s *Service) List(ctx context.Context, accountID string) ([]Resume, error) {
	return s.Repo.ListByOwner(ctx, accountID)
}

// Get returns one résumé. Non-owners (other than admins) learn nothing: the
// résumé is reported as not found.
func (s *Service) Get(ctx context.Context, accountID, resumeID string) (Resume, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if d := policy.CanModifyResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// Update validates the payload and replaces the résumé's editable fields
// and sections wholesale.
func (s *Service) Update(ctx context.Context, accountID, resumeID string, in policy.ResumeUpdateInput) (Resume, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	if err := validationError(policy.ValidateResumeUpdate(in)); err != nil {
		return Resume{}, err
	}
	if d := policy.CanModifyResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return Resume{}, &PermissionError{Reason: d.Reason}
	}

	res.Title = strings.TrimSpace(in.Title)
	res.Layout = in.Layout
	res.Status = in.Status
	res.Public = in.Public
	res.BasicDetails = in.BasicDetails
	res.Education = in.Education
	res.Experience = in.Experience
	res.Projects = in.Projects
	res.Skills = in.Skills
	res.SocialProfiles = in.SocialProfiles

	return s.Repo.Update(ctx, res)
}

// Delete removes the résumé and its stored photo.
func (s *Service) Delete(ctx context.Context, accountID, resumeID string) error {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return err
	}
	if d := policy.CanModifyResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return &PermissionError{Reason: d.Reason}
	}

	if err := s.Repo.Delete(ctx, resumeID); err != nil {
		return err
	}
	s.removePhoto(ctx, res.PhotoKey)
	return nil
}

// Download checks permission and the monthly quota, then records the
// download and returns the full snapshot the caller renders.
func (s *Service) Download(ctx context.Context, accountID, resumeID string) (Resume, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if d := policy.CanDownloadResume(s.Env, account.Snapshot(), res.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return Resume{}, &PermissionError{Reason: d.Reason}
	}

	used, err := s.Usage.DownloadsThisMonth(ctx, accountID)
	if err != nil {
		return Resume{}, err
	}
	if d := policy.CanDownloadMore(account.Role, used); !d.Allowed {
		metrics.IncQuotaDenied(usage.ActionDownload)
		return Resume{}, &QuotaError{Reason: d.Reason}
	}

	updated, err := s.Repo.RecordDownload(ctx, resumeID, accountID)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeDownloaded()
	return updated, nil
}

// Share checks permission and the monthly quota, then records the share,
// marks the résumé public, and returns it with its public link.
func (s *Service) Share(ctx context.Context, accountID, resumeID string) (Resume, string, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return Resume{}, "", err
	}
	if d := policy.CanShareResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return Resume{}, "", &PermissionError{Reason: d.Reason}
	}

	used, err := s.Usage.SharesThisMonth(ctx, accountID)
	if err != nil {
		return Resume{}, "", err
	}
	if d := policy.CanShareMore(account.Role, used); !d.Allowed {
		metrics.IncQuotaDenied(usage.ActionShare)
		return Resume{}, "", &QuotaError{Reason: d.Reason}
	}

	updated, err := s.Repo.RecordShare(ctx, resumeID, accountID)
	if err != nil {
		return Resume{}, "", err
	}
	metrics.IncResumeShared()
	return updated, s.ShareLink(resumeID), nil
}

// PublicView returns a résumé through its share link: it must be published
// and marked public, otherwise it does not exist for the caller.
func (s *Service) PublicView(ctx context.Context, resumeID string) (Resume, error) {
	res, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if res.Status != policy.StatusPublished || !res.Public {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// ShareLink builds the public URL for a shared résumé.
func (s *Service) ShareLink(resumeID string) string {
	return fmt.Sprintf("%s/api/v1/shared/%s", strings.TrimRight(s.PublicBaseURL, "/"), resumeID)
}

// AttachPhoto stores the résumé header photo, replacing any previous one.
// The stored bytes decide the content type; only JPEG, PNG, and WebP pass.
func (s *Service) AttachPhoto(ctx context.Context, accountID, resumeID, fileName string, photo io.Reader) (int64, string, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return 0, "", err
	}
	if d := policy.CanModifyResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		metrics.IncPermissionDenied(d.Reason)
		return 0, "", &PermissionError{Reason: d.Reason}
	}

	key, size, mimeType, err := s.Store.Save(ctx, accountID, fileName, photo)
	if err != nil {
		return 0, "", err
	}
	if !allowedPhotoType(mimeType) {
		s.removePhoto(ctx, key)
		return 0, "", ErrUnsupportedPhoto
	}

	if err := s.Repo.SetPhotoKey(ctx, resumeID, key); err != nil {
		s.removePhoto(ctx, key)
		return 0, "", err
	}
	if res.PhotoKey != "" && res.PhotoKey != key {
		s.removePhoto(ctx, res.PhotoKey)
	}
	return size, mimeType, nil
}

// OpenPhoto streams the résumé photo with its sniffed content type.
func (s *Service) OpenPhoto(ctx context.Context, accountID, resumeID string) (io.ReadCloser, string, error) {
	account, res, err := s.resolve(ctx, accountID, resumeID)
	if err != nil {
		return nil, "", err
	}
	if d := policy.CanModifyResume(account.Snapshot(), res.Snapshot()); !d.Allowed {
		return nil, "", ErrNotFound
	}
	if res.PhotoKey == "" {
		return nil, "", ErrNoPhoto
	}

	rc, err := s.Store.Open(ctx, res.PhotoKey)
	if err != nil {
		return nil, "", err
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(rc, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		rc.Close()
		return nil, "", fmt.Errorf("read photo: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])
	combined := readCloser{
		Reader: io.MultiReader(bytes.NewReader(sniff[:n]), rc),
		Closer: rc,
	}
	return combined, mimeType, nil
}

func (s *Service) resolve(ctx context.Context, accountID, resumeID string) (accounts.Account, Resume, error) {
	account, err := s.Accounts.Get(ctx, accountID)
	if err != nil {
		return accounts.Account{}, Resume{}, err
	}
	res, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return accounts.Account{}, Resume{}, err
	}
	return account, res, nil
}

func (s *Service) removePhoto(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Store.Remove(ctx, key); err != nil {
		telemetry.Error("resume.photo_remove_failed", map[string]any{
			"photo_key": key,
			"error":     err.Error(),
		})
	}
}

func allowedPhotoType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

type readCloser struct {
	io.Reader
	io.Closer
}
