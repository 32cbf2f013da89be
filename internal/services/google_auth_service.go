package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vibro/internal/config"
)

var ErrGoogleTokenInvalid = errors.New("google token invalid")

// GoogleClaims — the subset of the tokeninfo response we act on.
type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthService validates presented ID tokens against the provider's
// tokeninfo endpoint. Token issuance stays the provider's concern.
type GoogleAuthService interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error)
}

type googleAuthService struct {
	cfg    config.GoogleConfig
	client *http.Client
}

func NewGoogleAuthService(cfg config.GoogleConfig) GoogleAuthService {
	return &googleAuthService{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *googleAuthService) VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error) {
	if idToken == "" {
		return nil, ErrGoogleTokenInvalid
	}
	endpoint := s.cfg.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGoogleTokenInvalid
	}
	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("tokeninfo decode: %w", err)
	}
	if claims.Audience != s.cfg.ClientID || claims.Email == "" || claims.EmailVerified != "true" {
		return nil, ErrGoogleTokenInvalid
	}
	return &claims, nil
}
