package models

import "time"

type User struct {
	ID              int       `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	Bio             string    `json:"bio,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	PasswordHash    string    `json:"-"`
	Verified        bool      `json:"verified"`
	Suspended       bool      `json:"-"`
	Honeytoken      bool      `json:"-"` // decoy account, any match is a failed login
	LastFingerprint string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	RememberMe       bool   `json:"remember_me"`
	CaptchaToken     string `json:"captcha_token"`
	VerificationCode string `json:"verification_code"`
	Fingerprint      string `json:"fingerprint"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Fingerprint string `json:"fingerprint"`
}
