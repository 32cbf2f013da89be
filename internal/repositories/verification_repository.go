package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"vibro/internal/models"
)

type VerificationRepository interface {
	Upsert(email, fingerprint, code string, expiresAt time.Time) error
	Get(email, fingerprint string) (*models.PendingVerification, error)
	Delete(email, fingerprint string) error
}

type verificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{DB: db}
}

// Upsert — одна живая запись на пару (email, fingerprint); повторная выдача
// атомарно затирает предыдущий код.
func (r *verificationRepository) Upsert(email, fingerprint, code string, expiresAt time.Time) error {
	const q = `
		INSERT INTO pending_verifications (email, fingerprint, code, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email, fingerprint)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	if _, err := r.DB.Exec(q, email, fingerprint, code, expiresAt); err != nil {
		return fmt.Errorf("pending verification upsert: %w", err)
	}
	return nil
}

func (r *verificationRepository) Get(email, fingerprint string) (*models.PendingVerification, error) {
	const q = `
		SELECT email, fingerprint, code, expires_at, created_at
		FROM pending_verifications
		WHERE email = $1 AND fingerprint = $2
	`
	row := r.DB.QueryRow(q, email, fingerprint)
	var v models.PendingVerification
	if err := row.Scan(&v.Email, &v.Fingerprint, &v.Code, &v.ExpiresAt, &v.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("pending verification get: %w", err)
	}
	return &v, nil
}

func (r *verificationRepository) Delete(email, fingerprint string) error {
	const q = `DELETE FROM pending_verifications WHERE email = $1 AND fingerprint = $2`
	if _, err := r.DB.Exec(q, email, fingerprint); err != nil {
		return fmt.Errorf("pending verification delete: %w", err)
	}
	return nil
}
