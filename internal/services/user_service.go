package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"vibro/internal/models"
	"vibro/internal/repositories"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrConfirmFailed = errors.New("invalid or expired verification code")
	ErrUserNotFound  = errors.New("user not found")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

type UserService interface {
	Register(email, password, displayName, fingerprint string) (*models.User, error)
	ConfirmRegistration(email, fingerprint, code string) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	// FindOrCreateVerified backs OAuth sign-in: the provider already proved
	// ownership of the email.
	FindOrCreateVerified(email, displayName, avatarURL string) (*models.User, error)
	UpdateProfile(id int, displayName, bio, avatarURL string) (*models.User, error)
}

type userService struct {
	repo   repositories.UserRepository
	auth   AuthService
	codes  VerificationCodeService
	emails EmailService
}

func NewUserService(repo repositories.UserRepository, auth AuthService, codes VerificationCodeService, emails EmailService) UserService {
	return &userService{repo: repo, auth: auth, codes: codes, emails: emails}
}

func (s *userService) Register(email, password, displayName, fingerprint string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(strings.TrimSpace(password)) < 8 {
		return nil, ErrWeakPassword
	}
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Verified:     false,
	}
	if user.DisplayName == "" {
		user.DisplayName = localPart(email)
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if _, err := s.codes.Issue(email, fingerprint); err != nil {
		// account exists, the client can ask for a fresh code
		log.Printf("[users][register] confirmation code delivery failed email=%q: %v", email, err)
	}
	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(user.Email, user.DisplayName); err != nil {
			log.Printf("[users][register] warning: welcome email failed for %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) ConfirmRegistration(email, fingerprint, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	ok, err := s.codes.Verify(email, fingerprint, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfirmFailed
	}
	return s.repo.MarkVerified(email)
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) GetByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) FindOrCreateVerified(email, displayName, avatarURL string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.Suspended || user.Honeytoken {
			return nil, ErrUserNotFound
		}
		return user, nil
	}
	user = &models.User{
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Verified:    true,
	}
	if user.DisplayName == "" {
		user.DisplayName = localPart(email)
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(id int, displayName, bio, avatarURL string) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if strings.TrimSpace(displayName) != "" {
		user.DisplayName = strings.TrimSpace(displayName)
	}
	user.Bio = bio
	user.AvatarURL = avatarURL
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
