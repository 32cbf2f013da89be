package services

import (
	"fmt"
	"log"
	"time"

	"vibro/internal/repositories"
	"vibro/internal/utils"
)

// VerificationCodeService issues and checks the short-lived numeric codes of
// the two-step login flow, keyed by (email, fingerprint).
type VerificationCodeService interface {
	Issue(email, fingerprint string) (string, error)
	Verify(email, fingerprint, submittedCode string) (bool, error)
}

type verificationCodeService struct {
	repo   repositories.VerificationRepository
	emails EmailService
	ttl    time.Duration
	now    func() time.Time
}

func NewVerificationCodeService(repo repositories.VerificationRepository, emails EmailService, ttl time.Duration) VerificationCodeService {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &verificationCodeService{
		repo:   repo,
		emails: emails,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a fresh 6-digit code, stores it (overwriting any earlier
// code for the same pair) and emails it. Only the latest code is ever valid.
func (s *verificationCodeService) Issue(email, fingerprint string) (string, error) {
	code, err := utils.NumericCode(6)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	expiresAt := s.now().Add(s.ttl)
	if err := s.repo.Upsert(email, fingerprint, code, expiresAt); err != nil {
		return "", err
	}
	if s.emails != nil {
		if err := s.emails.SendVerificationCode(email, code); err != nil {
			return "", fmt.Errorf("deliver code: %w", err)
		}
	}
	log.Printf("[verify][issue] code issued email=%q exp_at=%s", email, expiresAt.Format(time.RFC3339))
	return code, nil
}

// Verify succeeds only for an existing, exact, unexpired code, and consumes
// it on success. A failed attempt leaves the record in place; further tries
// are bounded by the rate limiter and the 60s window.
func (s *verificationCodeService) Verify(email, fingerprint, submittedCode string) (bool, error) {
	rec, err := s.repo.Get(email, fingerprint)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	if s.now().After(rec.ExpiresAt) {
		return false, nil
	}
	if rec.Code != submittedCode {
		return false, nil
	}
	if err := s.repo.Delete(email, fingerprint); err != nil {
		return false, err
	}
	return true, nil
}
