package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"cvbuilder-backend/internal/policy"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const accountColumns = `id, username, email, password_hash, password_salt, contact_number, role, active, verified, google_id, picture, created_at, updated_at`

// Create inserts a new account.
func (r *PGRepo) Create(ctx context.Context, a Account) error {
	const query = `
INSERT INTO accounts (id, username, email, password_hash, password_salt, contact_number, role, active, verified, google_id, picture, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.Username,
		a.Email,
		nullableBytes(a.PasswordHash),
		nullableBytes(a.PasswordSalt),
		a.ContactNumber,
		string(a.Role),
		a.Active,
		a.Verified,
		nullableString(a.GoogleID),
		a.Picture,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapConstraintError(err)
}

// GetByID returns the account with the given id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
LIMIT 1`
	return scanAccount(r.DB.QueryRowContext(ctx, query, id))
}

// GetByEmail returns the account with the given email, matched
// case-insensitively.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE LOWER(email) = LOWER($1)
LIMIT 1`
	return scanAccount(r.DB.QueryRowContext(ctx, query, email))
}

// GetByGoogleID returns the account linked to the given Google subject.
func (r *PGRepo) GetByGoogleID(ctx context.Context, googleID string) (Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE google_id = $1
LIMIT 1`
	return scanAccount(r.DB.QueryRowContext(ctx, query, googleID))
}

// UpdateProfile rewrites the mutable profile fields and returns the updated row.
func (r *PGRepo) UpdateProfile(ctx context.Context, id, username, email, contactNumber string) (Account, error) {
	const query = `
UPDATE accounts
SET username = $1, email = $2, contact_number = $3, updated_at = now()
WHERE id = $4
RETURNING ` + accountColumns
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, username, email, contactNumber, id))
	if err != nil {
		return Account{}, mapConstraintError(err)
	}
	return a, nil
}

// UpdatePassword replaces the password credential.
func (r *PGRepo) UpdatePassword(ctx context.Context, id string, hash, salt []byte) error {
	const query = `
UPDATE accounts
SET password_hash = $1, password_salt = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, hash, salt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetVerified writes the email verification flag.
func (r *PGRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `
UPDATE accounts
SET verified = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, verified, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetRole writes the account role and returns the updated row.
func (r *PGRepo) SetRole(ctx context.Context, id string, role policy.Role) (Account, error) {
	const query = `
UPDATE accounts
SET role = $1, updated_at = now()
WHERE id = $2
RETURNING ` + accountColumns
	return scanAccount(r.DB.QueryRowContext(ctx, query, string(role), id))
}

// SetActive writes the activity flag. Deactivation is a flag flip, never a
// hard delete.
func (r *PGRepo) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
UPDATE accounts
SET active = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// LinkGoogle attaches a Google subject to an existing account. Linked
// accounts are always treated as verified.
func (r *PGRepo) LinkGoogle(ctx context.Context, id, googleID, picture string) (Account, error) {
	const query = `
UPDATE accounts
SET google_id = $1,
    picture = CASE WHEN $2 <> '' THEN $2 ELSE picture END,
    verified = TRUE,
    updated_at = now()
WHERE id = $3
RETURNING ` + accountColumns
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, googleID, picture, id))
	if err != nil {
		return Account{}, mapConstraintError(err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var a Account
	var role string
	var googleID sql.NullString
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.PasswordSalt,
		&a.ContactNumber,
		&role,
		&a.Active,
		&a.Verified,
		&googleID,
		&a.Picture,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.Role = policy.Role(role)
	if googleID.Valid {
		a.GoogleID = googleID.String
	}
	return a, nil
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

// mapConstraintError translates unique-index violations into the package
// sentinels.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "accounts_username_key":
			return ErrUsernameTaken
		case "accounts_email_key":
			return ErrEmailTaken
		}
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
