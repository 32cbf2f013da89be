package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vibro/internal/config"
)

// CaptchaService checks a challenge-response token against the third-party
// verification endpoint. A missing or malformed token is a failed check, not
// an error; errors are reserved for the endpoint being unreachable.
type CaptchaService interface {
	Verify(ctx context.Context, token, clientIP string) (bool, error)
}

type captchaService struct {
	cfg    config.CaptchaConfig
	client *http.Client
}

func NewCaptchaService(cfg config.CaptchaConfig) CaptchaService {
	return &captchaService{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type captchaVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (s *captchaService) Verify(ctx context.Context, token, clientIP string) (bool, error) {
	if !s.cfg.Enabled {
		return true, nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {s.cfg.Secret},
		"response": {token},
		"remoteip": {clientIP},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verify call: %w", err)
	}
	defer resp.Body.Close()

	var out captchaVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("captcha verify decode: %w", err)
	}
	if !out.Success {
		log.Printf("[captcha][verify] rejected ip=%s codes=%v", clientIP, out.ErrorCodes)
	}
	return out.Success, nil
}
