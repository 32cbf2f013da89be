package services

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"vibro/internal/models"
	"vibro/internal/repositories"
	"vibro/internal/utils"
)

// LoginStatus is the converged outcome of one pass through the login state
// machine. Everything the client may learn is encoded here; which internal
// check failed is not distinguishable except for CAPTCHA and code errors,
// whose tokens are not secret.
type LoginStatus int

const (
	LoginInvalidCredentials LoginStatus = iota
	LoginRateLimited
	LoginCaptchaFailed
	LoginCodeRequired
	LoginCodeInvalid
	LoginSuccess
)

// LoginAttempt carries the request-scoped inputs of one login call.
type LoginAttempt struct {
	Email            string
	Password         string
	RememberMe       bool
	CaptchaToken     string
	VerificationCode string
	Fingerprint      string

	ClientIP       string
	UserAgent      string
	AcceptLanguage string
}

type LoginResult struct {
	Status  LoginStatus
	Session *models.Session // set on LoginSuccess only
}

type LoginService interface {
	Login(ctx context.Context, attempt LoginAttempt) (*LoginResult, error)
}

type loginService struct {
	users   repositories.UserRepository
	auth    AuthService
	limiter LoginLimiter
	captcha CaptchaService
	codes   VerificationCodeService
	session SessionService
	alerts  *AlertService

	sleep func(time.Duration)
}

func NewLoginService(
	users repositories.UserRepository,
	auth AuthService,
	limiter LoginLimiter,
	captcha CaptchaService,
	codes VerificationCodeService,
	session SessionService,
	alerts *AlertService,
) LoginService {
	return &loginService{
		users:   users,
		auth:    auth,
		limiter: limiter,
		captcha: captcha,
		codes:   codes,
		session: session,
		alerts:  alerts,
		sleep:   time.Sleep,
	}
}

// failDelay — небольшая случайная пауза на неуспехе, чтобы не облегчать
// перебор и не выдавать причину отказа по времени ответа.
func (s *loginService) failDelay() {
	s.sleep(time.Duration(50+rand.Intn(250)) * time.Millisecond)
}

// Login runs as much of the chain
// rate check -> captcha -> password -> code issue/verify -> session
// as the request's inputs allow. Field presence is validated by the handler
// before the store is ever touched.
func (s *loginService) Login(ctx context.Context, attempt LoginAttempt) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(attempt.Email))
	limiterKey := attempt.ClientIP + ":" + email

	if !s.limiter.Allow(ctx, limiterKey) {
		log.Printf("[auth][login] rate limited key=%q", limiterKey)
		s.alerts.RateLimitTripped(limiterKey)
		return &LoginResult{Status: LoginRateLimited}, nil
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	// The hash comparison happens whether or not the account exists, so the
	// response timing does not reveal registration status.
	passwordOK := false
	if user == nil || user.PasswordHash == "" {
		s.auth.CheckDummy(attempt.Password)
	} else {
		passwordOK = s.auth.CheckPassword(user.PasswordHash, attempt.Password)
	}

	if user == nil || !passwordOK || !user.Verified || user.Suspended || user.Honeytoken {
		if user != nil && user.Honeytoken && passwordOK {
			log.Printf("[auth][login] honeytoken hit email=%q ip=%s", email, attempt.ClientIP)
			s.alerts.HoneytokenHit(email, attempt.ClientIP)
		}
		s.limiter.RecordFailure(ctx, limiterKey)
		s.failDelay()
		return &LoginResult{Status: LoginInvalidCredentials}, nil
	}

	fingerprint := utils.Fingerprint(attempt.Fingerprint, attempt.UserAgent, attempt.AcceptLanguage, attempt.ClientIP)

	if attempt.VerificationCode == "" {
		// First step: fresh CAPTCHA is mandatory, then a code goes out.
		ok, err := s.captcha.Verify(ctx, attempt.CaptchaToken, attempt.ClientIP)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.limiter.RecordFailure(ctx, limiterKey)
			return &LoginResult{Status: LoginCaptchaFailed}, nil
		}
		if _, err := s.codes.Issue(email, fingerprint); err != nil {
			return nil, err
		}
		return &LoginResult{Status: LoginCodeRequired}, nil
	}

	// Second step: the code replaces the CAPTCHA.
	ok, err := s.codes.Verify(email, fingerprint, strings.TrimSpace(attempt.VerificationCode))
	if err != nil {
		return nil, err
	}
	if !ok {
		s.limiter.RecordFailure(ctx, limiterKey)
		s.failDelay()
		return &LoginResult{Status: LoginCodeInvalid}, nil
	}

	session, err := s.session.Establish(email, attempt.RememberMe)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateLastFingerprint(email, fingerprint); err != nil {
		log.Printf("[auth][login] update fingerprint failed email=%q: %v", email, err)
	}

	log.Printf("[auth][login] success email=%q remember=%v", email, attempt.RememberMe)
	return &LoginResult{Status: LoginSuccess, Session: session}, nil
}
