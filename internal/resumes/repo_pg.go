package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/usage"
)

// PGRepo implements Repo using Postgres. Sections live in JSONB columns on
// the résumé row and are replaced wholesale on update.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, owner_id, title, layout, status, public, basic_details, education, experience, projects, skills, social_profiles, photo_key, download_count, share_count, created_at, updated_at`

// Create inserts a new résumé.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (id, owner_id, title, layout, status, public, basic_details, education, experience, projects, skills, social_profiles, photo_key, download_count, share_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	sections, err := marshalSections(res)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.OwnerID,
		res.Title,
		string(res.Layout),
		string(res.Status),
		res.Public,
		sections.basicDetails,
		sections.education,
		sections.experience,
		sections.projects,
		sections.skills,
		sections.socialProfiles,
		res.PhotoKey,
		res.DownloadCount,
		res.ShareCount,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

// GetByID returns the résumé with the given id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

// ListByOwner returns the account's résumés, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE owner_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields and sections and returns the stored row.
func (r *PGRepo) Update(ctx context.Context, res Resume) (Resume, error) {
	const query = `
UPDATE resumes
SET title = $1, layout = $2, status = $3, public = $4,
    basic_details = $5, education = $6, experience = $7, projects = $8, skills = $9, social_profiles = $10,
    updated_at = now()
WHERE id = $11
RETURNING ` + resumeColumns
	sections, err := marshalSections(res)
	if err != nil {
		return Resume{}, err
	}
	return scanResume(r.DB.QueryRowContext(ctx, query,
		res.Title,
		string(res.Layout),
		string(res.Status),
		res.Public,
		sections.basicDetails,
		sections.education,
		sections.experience,
		sections.projects,
		sections.skills,
		sections.socialProfiles,
		res.ID,
	))
}

// Delete removes the résumé row. Activity events keep their nullable
// resume_id reference.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountByOwner counts the résumés the account currently owns.
func (r *PGRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM resumes WHERE owner_id = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordDownload increments the download counter and appends the activity
// event in one transaction.
func (r *PGRepo) RecordDownload(ctx context.Context, id, accountID string) (Resume, error) {
	const query = `
UPDATE resumes
SET download_count = download_count + 1, updated_at = now()
WHERE id = $1
RETURNING ` + resumeColumns
	return r.recordAction(ctx, query, id, accountID, usage.ActionDownload)
}

// RecordShare increments the share counter, marks the résumé public, and
// appends the activity event in one transaction.
func (r *PGRepo) RecordShare(ctx context.Context, id, accountID string) (Resume, error) {
	const query = `
UPDATE resumes
SET share_count = share_count + 1, public = TRUE, updated_at = now()
WHERE id = $1
RETURNING ` + resumeColumns
	return r.recordAction(ctx, query, id, accountID, usage.ActionShare)
}

// SetPhotoKey stores the object-store key of the résumé photo.
func (r *PGRepo) SetPhotoKey(ctx context.Context, id, photoKey string) error {
	const query = `
UPDATE resumes
SET photo_key = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, photoKey, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) recordAction(ctx context.Context, updateQuery, id, accountID, action string) (Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, err
	}
	defer tx.Rollback()

	res, err := scanResume(tx.QueryRowContext(ctx, updateQuery, id))
	if err != nil {
		return Resume{}, err
	}

	const eventQuery = `
INSERT INTO resume_activity (account_id, resume_id, action, occurred_at)
VALUES ($1, $2, $3, now())`
	if _, err := tx.ExecContext(ctx, eventQuery, accountID, id, action); err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, err
	}
	return res, nil
}

type sectionPayloads struct {
	basicDetails   []byte
	education      []byte
	experience     []byte
	projects       []byte
	skills         []byte
	socialProfiles []byte
}

func marshalSections(res Resume) (sectionPayloads, error) {
	var p sectionPayloads
	var err error
	if p.basicDetails, err = json.Marshal(res.BasicDetails); err != nil {
		return p, fmt.Errorf("marshal basic details: %w", err)
	}
	if p.education, err = marshalList(res.Education); err != nil {
		return p, fmt.Errorf("marshal education: %w", err)
	}
	if p.experience, err = marshalList(res.Experience); err != nil {
		return p, fmt.Errorf("marshal experience: %w", err)
	}
	if p.projects, err = marshalList(res.Projects); err != nil {
		return p, fmt.Errorf("marshal projects: %w", err)
	}
	if p.skills, err = marshalList(res.Skills); err != nil {
		return p, fmt.Errorf("marshal skills: %w", err)
	}
	if p.socialProfiles, err = marshalList(res.SocialProfiles); err != nil {
		return p, fmt.Errorf("marshal social profiles: %w", err)
	}
	return p, nil
}

// marshalList keeps nil slices stored as empty JSON arrays.
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(list)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var layout, status string
	var basicDetails, education, experience, projects, skills, socialProfiles []byte
	err := row.Scan(
		&res.ID,
		&res.OwnerID,
		&res.Title,
		&layout,
		&status,
		&res.Public,
		&basicDetails,
		&education,
		&experience,
		&projects,
		&skills,
		&socialProfiles,
		&res.PhotoKey,
		&res.DownloadCount,
		&res.ShareCount,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.Layout = policy.Layout(layout)
	res.Status = policy.Status(status)
	if err := json.Unmarshal(basicDetails, &res.BasicDetails); err != nil {
		return Resume{}, fmt.Errorf("unmarshal basic details: %w", err)
	}
	if err := json.Unmarshal(education, &res.Education); err != nil {
		return Resume{}, fmt.Errorf("unmarshal education: %w", err)
	}
	if err := json.Unmarshal(experience, &res.Experience); err != nil {
		return Resume{}, fmt.Errorf("unmarshal experience: %w", err)
	}
	if err := json.Unmarshal(projects, &res.Projects); err != nil {
		return Resume{}, fmt.Errorf("unmarshal projects: %w", err)
	}
	if err := json.Unmarshal(skills, &res.Skills); err != nil {
		return Resume{}, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(socialProfiles, &res.SocialProfiles); err != nil {
		return Resume{}, fmt.Errorf("unmarshal social profiles: %w", err)
	}
	return res.withPhotoFlag(), nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
