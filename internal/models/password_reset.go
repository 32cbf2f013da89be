package models

import "time"

// PasswordReset — a single-use reset grant. The token leaves the server only
// inside the reset email; UsedAt marks consumption so a token never works twice.
type PasswordReset struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
