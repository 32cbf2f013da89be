package models

import "time"

// Session — a server-side record backing the __Host-session_secure cookie.
// Token is an opaque encrypted bearer string; it is only ever compared for
// exact equality, never decoded by relying code.
type Session struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
