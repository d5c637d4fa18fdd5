package usage

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements Store using Postgres. The résumé repository inserts
// activity rows inside its own counter transactions; RecordEvent exists for
// callers recording events outside that path.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed activity store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

// CountEvents counts the account's actions recorded at or after since.
func (s *PGStore) CountEvents(ctx context.Context, accountID, action string, since time.Time) (int, error) {
	const query = `
SELECT COUNT(*)
FROM resume_activity
WHERE account_id = $1 AND action = $2 AND occurred_at >= $3`
	var n int
	if err := s.DB.QueryRowContext(ctx, query, accountID, action, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordEvent appends one activity row.
func (s *PGStore) RecordEvent(ctx context.Context, e Event) error {
	const query = `
INSERT INTO resume_activity (account_id, resume_id, action, occurred_at)
VALUES ($1, $2, $3, $4)`
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	var resumeID any
	if e.ResumeID != "" {
		resumeID = e.ResumeID
	}
	_, err := s.DB.ExecContext(ctx, query, e.AccountID, resumeID, e.Action, occurredAt)
	return err
}

var _ Store = (*PGStore)(nil)
