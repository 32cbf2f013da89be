package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"vibro/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	DeleteByToken(token string) error
	DeleteExpired(before time.Time) (int64, error)
}

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	const q = `
		INSERT INTO sessions (email, token, expires_at, verified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, session.Email, session.Token, session.ExpiresAt, session.Verified).
		Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("session create: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByToken(token string) (*models.Session, error) {
	const q = `
		SELECT id, email, token, expires_at, verified, created_at
		FROM sessions
		WHERE token = $1
	`
	row := r.DB.QueryRow(q, token)
	var s models.Session
	if err := row.Scan(&s.ID, &s.Email, &s.Token, &s.ExpiresAt, &s.Verified, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) DeleteByToken(token string) error {
	const q = `DELETE FROM sessions WHERE token = $1`
	if _, err := r.DB.Exec(q, token); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(before time.Time) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at < $1`
	res, err := r.DB.Exec(q, before)
	if err != nil {
		return 0, fmt.Errorf("session delete expired: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
