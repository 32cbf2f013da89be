package models

import "time"

// PendingVerification — at most one live code per (email, fingerprint) pair;
// a re-issue overwrites the previous code.
type PendingVerification struct {
	Email       string    `json:"email"`
	Fingerprint string    `json:"fingerprint"`
	Code        string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}
