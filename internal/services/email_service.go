package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendWelcomeEmail(email, displayName string) error
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationCode(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Vibro sign-in code")

	body := fmt.Sprintf(`
		<h3>Sign-in verification</h3>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>The code expires in one minute. If you did not try to sign in, you can ignore this email.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	return nil
}

func (s *emailService) SendWelcomeEmail(email, displayName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Vibro!")

	body := fmt.Sprintf(`
		<h2>Welcome to Vibro, %s!</h2>
		<p>Your account has been created. Confirm your email with the code we sent to start posting videos.</p>
		<p>Best regards,<br>The Vibro Team</p>
	`, displayName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Use the following token to reset your password: <strong>%s</strong></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, token)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
