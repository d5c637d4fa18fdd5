package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"cvbuilder-backend/internal/accounts"
	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/shared/auth"
	localstore "cvbuilder-backend/internal/shared/storage/object/local"
	"cvbuilder-backend/internal/usage"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

func newTestService(t *testing.T) (*Service, *accounts.Service) {
	t.Helper()
	accountsSvc := accounts.NewService(accounts.NewMemoryRepo(), auth.NewManager("test-secret", time.Hour, time.Hour))
	events := usage.NewMemoryStore()
	repo := NewMemoryRepo(events)
	svc := &Service{
		Repo:          repo,
		Accounts:      accountsSvc,
		Usage:         usage.NewService(events, repo),
		Store:         localstore.New(t.TempDir()),
		Env:           policy.Environment{RequireEmailVerification: true},
		PublicBaseURL: "http://localhost:8080",
	}
	return svc, accountsSvc
}

func registerVerified(t *testing.T, svc *accounts.Service, username, email string) accounts.Account {
	t.Helper()
	ctx := context.Background()
	_, token, err := svc.Register(ctx, policy.RegistrationInput{Username: username, Email: email, Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	account, err := svc.VerifyEmail(ctx, token)
	if err != nil {
		t.Fatalf("verify %s: %v", username, err)
	}
	return account
}

func createInput() policy.ResumeCreateInput {
	return policy.ResumeCreateInput{
		Title:        "Backend Engineer CV",
		Layout:       policy.LayoutModern,
		BasicDetails: policy.BasicDetails{FullName: "Jo Doe"},
	}
}

func publishInput() policy.ResumeUpdateInput {
	return policy.ResumeUpdateInput{
		Title:        "Backend Engineer CV",
		Layout:       policy.LayoutModern,
		Status:       policy.StatusPublished,
		BasicDetails: policy.BasicDetails{FullName: "Jo Doe"},
	}
}

func TestCreateRequiresVerifiedEmail(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()

	session, _, err := accountsSvc.Register(ctx, policy.RegistrationInput{Username: "jo_doe", Email: "jo@example.com", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var pErr *PermissionError
	_, err = svc.Create(ctx, session.Account.ID, createInput())
	if !errors.As(err, &pErr) {
		t.Fatalf("unverified create: err=%v, want PermissionError", err)
	}
	if pErr.Reason != policy.ReasonVerificationRequired {
		t.Fatalf("reason=%q, want %q", pErr.Reason, policy.ReasonVerificationRequired)
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	in := createInput()
	in.Title = "  Backend Engineer CV  "
	res, err := svc.Create(ctx, owner.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != policy.StatusDraft {
		t.Fatalf("status=%q, want draft", res.Status)
	}
	if res.OwnerID != owner.ID {
		t.Fatalf("ownerID=%q, want %q", res.OwnerID, owner.ID)
	}
	if res.Title != "Backend Engineer CV" {
		t.Fatalf("title=%q, want trimmed", res.Title)
	}
	if res.Public {
		t.Fatalf("new resume must not be public")
	}
}

func TestCreateValidatesPayload(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	in := createInput()
	in.Title = "x"
	in.Layout = "fancy"

	var vErr *ValidationError
	_, err := svc.Create(context.Background(), owner.ID, in)
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if len(vErr.Violations) != 2 {
		t.Fatalf("violations=%d, want 2", len(vErr.Violations))
	}
}

func TestCreateEnforcesResumeQuota(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	for i := 0; i < policy.MaxResumesStandard; i++ {
		in := createInput()
		in.Title = fmt.Sprintf("Backend Engineer CV %d", i)
		if _, err := svc.Create(ctx, owner.ID, in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	var qErr *QuotaError
	_, err := svc.Create(ctx, owner.ID, createInput())
	if !errors.As(err, &qErr) {
		t.Fatalf("11th create: err=%v, want QuotaError", err)
	}
	if !strings.Contains(qErr.Reason, "10") {
		t.Fatalf("reason=%q, want the limit in it", qErr.Reason)
	}
	if !strings.Contains(qErr.Reason, "Upgrade to premium") {
		t.Fatalf("reason=%q, want the upgrade hint for standard accounts", qErr.Reason)
	}
}

func TestPremiumHasNoResumeCap(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")
	if _, err := accountsSvc.Upgrade(ctx, owner.ID); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	for i := 0; i < policy.MaxResumesStandard+2; i++ {
		in := createInput()
		in.Title = fmt.Sprintf("Backend Engineer CV %d", i)
		if _, err := svc.Create(ctx, owner.ID, in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
}

func TestGetHidesForeignResumes(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")
	other := registerVerified(t, accountsSvc, "sam_roe", "sam@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, other.ID, res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign get: err=%v, want ErrNotFound", err)
	}

	admin := accounts.Account{ID: "admin-1", Username: "site_admin", Email: "admin@example.com", Role: policy.RoleAdmin, Active: true, Verified: true}
	if err := accountsSvc.Repo.Create(ctx, admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := svc.Get(ctx, admin.ID, res.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestUpdateReplacesSectionsAndKeepsCounters(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")
	other := registerVerified(t, accountsSvc, "sam_roe", "sam@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := publishInput()
	in.Education = []policy.EducationEntry{{DegreeName: "BSc CS", Institution: "MIT", StartDate: "2016-09"}}
	in.Skills = []policy.SkillEntry{{SkillName: "Go", ProficiencyPercentage: 90, Category: policy.SkillTechnical}}

	updated, err := svc.Update(ctx, owner.ID, res.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != policy.StatusPublished {
		t.Fatalf("status=%q, want published", updated.Status)
	}
	if len(updated.Education) != 1 || len(updated.Skills) != 1 {
		t.Fatalf("sections not replaced: %+v", updated)
	}
	if updated.DownloadCount != 0 || updated.ShareCount != 0 {
		t.Fatalf("counters changed on update")
	}

	var pErr *PermissionError
	if _, err := svc.Update(ctx, other.ID, res.ID, in); !errors.As(err, &pErr) {
		t.Fatalf("foreign update: err=%v, want PermissionError", err)
	}
	if pErr.Reason != policy.ReasonNotOwner {
		t.Fatalf("reason=%q, want %q", pErr.Reason, policy.ReasonNotOwner)
	}
}

func TestShareRequiresPublishedStatus(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var pErr *PermissionError
	if _, _, err := svc.Share(ctx, owner.ID, res.ID); !errors.As(err, &pErr) {
		t.Fatalf("draft share: err=%v, want PermissionError", err)
	}
	if pErr.Reason != policy.ReasonMustBePublished {
		t.Fatalf("reason=%q, want %q", pErr.Reason, policy.ReasonMustBePublished)
	}

	if _, err := svc.Update(ctx, owner.ID, res.ID, publishInput()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	shared, link, err := svc.Share(ctx, owner.ID, res.ID)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !shared.Public {
		t.Fatalf("shared resume not marked public")
	}
	if shared.ShareCount != 1 {
		t.Fatalf("shareCount=%d, want 1", shared.ShareCount)
	}
	if want := "http://localhost:8080/api/v1/shared/" + res.ID; link != want {
		t.Fatalf("link=%q, want %q", link, want)
	}
}

func TestShareEnforcesMonthlyQuota(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, owner.ID, res.ID, publishInput()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i := 0; i < policy.MonthlySharesStandard; i++ {
		if _, _, err := svc.Share(ctx, owner.ID, res.ID); err != nil {
			t.Fatalf("share %d: %v", i, err)
		}
	}

	var qErr *QuotaError
	if _, _, err := svc.Share(ctx, owner.ID, res.ID); !errors.As(err, &qErr) {
		t.Fatalf("6th share: err=%v, want QuotaError", err)
	}
	if !strings.Contains(qErr.Reason, "5") {
		t.Fatalf("reason=%q, want the limit in it", qErr.Reason)
	}
}

func TestDownloadEnforcesMonthlyQuota(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var last Resume
	for i := 0; i < policy.MonthlyDownloadsStandard; i++ {
		last, err = svc.Download(ctx, owner.ID, res.ID)
		if err != nil {
			t.Fatalf("download %d: %v", i, err)
		}
	}
	if last.DownloadCount != int64(policy.MonthlyDownloadsStandard) {
		t.Fatalf("downloadCount=%d, want %d", last.DownloadCount, policy.MonthlyDownloadsStandard)
	}

	var qErr *QuotaError
	if _, err := svc.Download(ctx, owner.ID, res.ID); !errors.As(err, &qErr) {
		t.Fatalf("4th download: err=%v, want QuotaError", err)
	}
	if !strings.Contains(qErr.Reason, "3") || !strings.Contains(qErr.Reason, "Upgrade to premium") {
		t.Fatalf("reason=%q, want limit and upgrade hint", qErr.Reason)
	}
}

func TestDownloadPublishGate(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	svc.Env.RequirePublishedForDownload = true
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var pErr *PermissionError
	if _, err := svc.Download(ctx, owner.ID, res.ID); !errors.As(err, &pErr) {
		t.Fatalf("draft download with gate on: err=%v, want PermissionError", err)
	}
	if pErr.Reason != policy.ReasonMustBePublished {
		t.Fatalf("reason=%q, want %q", pErr.Reason, policy.ReasonMustBePublished)
	}

	if _, err := svc.Update(ctx, owner.ID, res.ID, publishInput()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Download(ctx, owner.ID, res.ID); err != nil {
		t.Fatalf("published download: %v", err)
	}
}

func TestPublicViewRequiresPublishedAndPublic(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.PublicView(ctx, res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft public view: err=%v, want ErrNotFound", err)
	}

	if _, err := svc.Update(ctx, owner.ID, res.ID, publishInput()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// Published but never shared: still private.
	if _, err := svc.PublicView(ctx, res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unshared public view: err=%v, want ErrNotFound", err)
	}

	if _, _, err := svc.Share(ctx, owner.ID, res.ID); err != nil {
		t.Fatalf("Share: %v", err)
	}
	viewed, err := svc.PublicView(ctx, res.ID)
	if err != nil {
		t.Fatalf("PublicView: %v", err)
	}
	if viewed.ID != res.ID {
		t.Fatalf("viewed id=%q, want %q", viewed.ID, res.ID)
	}
}

func TestAttachPhotoStoresAndReplaces(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	size, mimeType, err := svc.AttachPhoto(ctx, owner.ID, res.ID, "headshot.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	if size != int64(len(pngBytes)) {
		t.Fatalf("size=%d, want %d", size, len(pngBytes))
	}
	if mimeType != "image/png" {
		t.Fatalf("mimeType=%q, want image/png", mimeType)
	}

	stored, err := svc.Repo.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	firstKey := stored.PhotoKey
	if firstKey == "" {
		t.Fatalf("photo key not persisted")
	}
	if !stored.HasPhoto {
		t.Fatalf("hasPhoto flag not set")
	}

	rc, openMime, err := svc.OpenPhoto(ctx, owner.ID, res.ID)
	if err != nil {
		t.Fatalf("OpenPhoto: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read photo: %v", err)
	}
	if !bytes.Equal(got, pngBytes) {
		t.Fatalf("photo bytes differ")
	}
	if openMime != "image/png" {
		t.Fatalf("open mime=%q, want image/png", openMime)
	}

	// Replacing removes the previous object.
	if _, _, err := svc.AttachPhoto(ctx, owner.ID, res.ID, "headshot2.png", bytes.NewReader(pngBytes)); err != nil {
		t.Fatalf("AttachPhoto(2): %v", err)
	}
	if _, err := svc.Store.Open(ctx, firstKey); err == nil {
		t.Fatalf("old photo object still present")
	}
}

func TestAttachPhotoRejectsUnsupportedType(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, _, err = svc.AttachPhoto(ctx, owner.ID, res.ID, "notes.txt", strings.NewReader("plain text, not an image"))
	if !errors.Is(err, ErrUnsupportedPhoto) {
		t.Fatalf("err=%v, want ErrUnsupportedPhoto", err)
	}

	if _, _, err := svc.OpenPhoto(ctx, owner.ID, res.ID); !errors.Is(err, ErrNoPhoto) {
		t.Fatalf("err=%v, want ErrNoPhoto after rejected upload", err)
	}
}

func TestDeleteRemovesResumeAndPhoto(t *testing.T) {
	svc, accountsSvc := newTestService(t)
	ctx := context.Background()
	owner := registerVerified(t, accountsSvc, "jo_doe", "jo@example.com")

	res, err := svc.Create(ctx, owner.ID, createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.AttachPhoto(ctx, owner.ID, res.ID, "headshot.png", bytes.NewReader(pngBytes)); err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	stored, err := svc.Repo.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if err := svc.Delete(ctx, owner.ID, res.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, owner.ID, res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted resume still readable: err=%v", err)
	}
	if _, err := svc.Store.Open(ctx, stored.PhotoKey); err == nil {
		t.Fatalf("photo object survived delete")
	}
}
