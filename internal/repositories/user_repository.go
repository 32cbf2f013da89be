package repositories

import (
	"database/sql"
	"fmt"

	"vibro/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdatePassword(id int, passwordHash string) error
	MarkVerified(email string) error
	UpdateLastFingerprint(email, fingerprint string) error
	Delete(id int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, display_name, bio, avatar_url, password_hash, verified, suspended, honeytoken, last_fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		user.Email, user.DisplayName, user.Bio, user.AvatarURL, user.PasswordHash,
		user.Verified, user.Suspended, user.Honeytoken, user.LastFingerprint,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Bio, &u.AvatarURL, &u.PasswordHash,
		&u.Verified, &u.Suspended, &u.Honeytoken, &u.LastFingerprint, &u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, email, display_name, bio, avatar_url, password_hash, verified, suspended, honeytoken, last_fingerprint, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, email, display_name, bio, avatar_url, password_hash, verified, suspended, honeytoken, last_fingerprint, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET display_name = $2, bio = $3, avatar_url = $4
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, user.ID, user.DisplayName, user.Bio, user.AvatarURL)
	return err
}

func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := r.DB.Exec(q, id, passwordHash)
	return err
}

func (r *userRepository) MarkVerified(email string) error {
	const q = `UPDATE users SET verified = TRUE WHERE email = $1`
	_, err := r.DB.Exec(q, email)
	return err
}

func (r *userRepository) UpdateLastFingerprint(email, fingerprint string) error {
	const q = `UPDATE users SET last_fingerprint = $2 WHERE email = $1`
	_, err := r.DB.Exec(q, email, fingerprint)
	return err
}

func (r *userRepository) Delete(id int) error {
	const q = `DELETE FROM users WHERE id = $1`
	_, err := r.DB.Exec(q, id)
	return err
}
