package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"vibro/internal/models"
)

// In-memory collaborators for service tests.

var errSMTPDown = errors.New("smtp down")

type fakeUserRepo struct {
	mu       sync.Mutex
	byEmail  map[string]*models.User
	getCalls int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: map[string]*models.User{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = len(r.byEmail) + 1
	user.CreatedAt = time.Now()
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(user *models.User) error { return nil }

func (r *fakeUserRepo) UpdatePassword(id int, hash string) error { return nil }

func (r *fakeUserRepo) MarkVerified(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.byEmail[email]; u != nil {
		u.Verified = true
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastFingerprint(email, fingerprint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.byEmail[email]; u != nil {
		u.LastFingerprint = fingerprint
	}
	return nil
}

func (r *fakeUserRepo) Delete(id int) error { return nil }

type pendingKey struct{ email, fingerprint string }

type fakeVerificationRepo struct {
	mu      sync.Mutex
	pending map[pendingKey]*models.PendingVerification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{pending: map[pendingKey]*models.PendingVerification{}}
}

func (r *fakeVerificationRepo) Upsert(email, fingerprint, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[pendingKey{email, fingerprint}] = &models.PendingVerification{
		Email: email, Fingerprint: fingerprint, Code: code, ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeVerificationRepo) Get(email, fingerprint string) (*models.PendingVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[pendingKey{email, fingerprint}], nil
}

func (r *fakeVerificationRepo) Delete(email, fingerprint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, pendingKey{email, fingerprint})
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	byToken  map[string]*models.Session
	nextID   int64
	deletes  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byToken: map[string]*models.Session{}}
}

func (r *fakeSessionRepo) Create(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	cp := *session
	r.byToken[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByToken(token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) DeleteByToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
	r.deletes++
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(before time.Time) (int64, error) { return 0, nil }

type fakeEmailService struct {
	mu    sync.Mutex
	codes []string
	to    []string
	fail  bool
}

func (s *fakeEmailService) SendVerificationCode(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errSMTPDown
	}
	s.to = append(s.to, email)
	s.codes = append(s.codes, code)
	return nil
}

func (s *fakeEmailService) SendWelcomeEmail(email, displayName string) error { return nil }

func (s *fakeEmailService) SendPasswordResetEmail(email, token string) error { return nil }

func (s *fakeEmailService) lastCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.codes) == 0 {
		return ""
	}
	return s.codes[len(s.codes)-1]
}

type fakeLimiter struct {
	mu       sync.Mutex
	denied   bool
	failures map[string]int
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{failures: map[string]int{}}
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.denied
}

func (l *fakeLimiter) RecordFailure(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key]++
}

func (l *fakeLimiter) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.failures {
		n += c
	}
	return n
}

type fakeCaptcha struct {
	ok    bool
	calls int
}

func (c *fakeCaptcha) Verify(ctx context.Context, token, clientIP string) (bool, error) {
	c.calls++
	return c.ok && token != "", nil
}
