package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"

	"vibro/internal/models"
	"vibro/internal/repositories"
)

// Session tokens are opaque encrypted bearer strings emitted as
// hex(iv):hex(tag):hex(ciphertext). The payload is a random identifier that
// relying code never interprets; only exact-match lookup in the sessions
// table matters. AES-GCM gives both confidentiality and integrity, the key
// comes from scrypt over the server secret.
type SessionService interface {
	GenerateToken() (string, error)
	OpenToken(token string) ([]byte, error)
	Establish(email string, rememberMe bool) (*models.Session, error)
	Validate(token string) (*models.Session, error)
	Revoke(token string) error
}

type sessionService struct {
	repo     repositories.SessionRepository
	aead     cipher.AEAD
	shortTTL time.Duration
	longTTL  time.Duration
	now      func() time.Time
}

func NewSessionService(repo repositories.SessionRepository, secret, kdfSalt string, shortTTL, longTTL time.Duration) (SessionService, error) {
	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), 32768, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("session gcm: %w", err)
	}
	return &sessionService{
		repo:     repo,
		aead:     aead,
		shortTTL: shortTTL,
		longTTL:  longTTL,
		now:      time.Now,
	}, nil
}

func (s *sessionService) GenerateToken() (string, error) {
	id := uuid.New()

	iv := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("session iv: %w", err)
	}

	sealed := s.aead.Seal(nil, iv, id[:], nil)
	tagStart := len(sealed) - s.aead.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// OpenToken authenticates and decrypts a token. Any tampering with iv, tag
// or ciphertext fails here before the store is ever consulted.
func (s *sessionService) OpenToken(token string) ([]byte, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed session token")
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != s.aead.NonceSize() {
		return nil, fmt.Errorf("malformed session token iv")
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != s.aead.Overhead() {
		return nil, fmt.Errorf("malformed session token tag")
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("malformed session token ciphertext")
	}
	plain, err := s.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, fmt.Errorf("session token rejected: %w", err)
	}
	return plain, nil
}

func (s *sessionService) Establish(email string, rememberMe bool) (*models.Session, error) {
	token, err := s.GenerateToken()
	if err != nil {
		return nil, err
	}
	ttl := s.shortTTL
	if rememberMe {
		ttl = s.longTTL
	}
	session := &models.Session{
		Email:     email,
		Token:     token,
		ExpiresAt: s.now().Add(ttl),
		Verified:  true,
	}
	if err := s.repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate treats not-found and expired identically; expired rows are
// deleted on discovery rather than left for a sweep.
func (s *sessionService) Validate(token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	if _, err := s.OpenToken(token); err != nil {
		return nil, nil
	}
	session, err := s.repo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if s.now().After(session.ExpiresAt) {
		if err := s.repo.DeleteByToken(token); err != nil {
			log.Printf("[session][validate] cleanup of expired session failed: %v", err)
		}
		return nil, nil
	}
	return session, nil
}

func (s *sessionService) Revoke(token string) error {
	return s.repo.DeleteByToken(token)
}
