package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CredentialRepo stores one pending verification code per email in verification_credentials.
type CredentialRepo struct {
	db DB
}

func NewCredentialRepo(db DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Upsert overwrites any credential already stored for c.Email.
func (r *CredentialRepo) Upsert(ctx context.Context, c *domain.VerificationCredential) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO verification_credentials (email, code, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at`,
		c.Email, c.Code, c.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepo) Get(ctx context.Context, email string) (*domain.VerificationCredential, error) {
	var c domain.VerificationCredential
	err := r.db.QueryRow(ctx,
		`SELECT email, code, expires_at FROM verification_credentials WHERE email = $1`,
		email,
	).Scan(&c.Email, &c.Code, &c.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

func (r *CredentialRepo) Delete(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM verification_credentials WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Consume deletes the credential only if it still holds code and reports
// whether this call removed it.
func (r *CredentialRepo) Consume(ctx context.Context, email, code string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM verification_credentials WHERE email = $1 AND code = $2`,
		email, code,
	)
	if err != nil {
		return false, fmt.Errorf("consume credential: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SweepExpired removes credentials that expired before now.
func (r *CredentialRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification_credentials WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep credentials: %w", err)
	}
	return tag.RowsAffected(), nil
}
