package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/amosov/userdir/src/templates"
)

// EmailService handles transactional email over SMTP submission
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *templates.EmailConfig
}

// NewEmailService creates an email service from SMTP settings. Returns nil
// when no host is configured so callers can treat email as disabled.
func NewEmailService(host string, port int, user, pass, from string) *EmailService {
	if host == "" {
		return nil
	}

	config, err := templates.LoadEmailConfig()
	if err != nil {
		// Embedded config; a parse failure is a build defect
		panic("failed to load email config: " + err.Error())
	}

	return &EmailService{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		config: config,
	}
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendWelcomeEmail notifies a user that an admin created an account for them
func (s *EmailService) SendWelcomeEmail(to, name string) error {
	body, err := templates.RenderWelcome(templates.AccountEmailData{
		Name:      name,
		Intro:     s.config.Welcome.Intro,
		NextSteps: s.config.Welcome.NextSteps,
		BrandName: s.config.Branding.Name,
		Tagline:   s.config.Branding.Tagline,
	})
	if err != nil {
		return err
	}
	return s.send(to, s.config.Subjects.Welcome, body)
}

// SendRegistrationEmail confirms a self-service registration. The chosen
// password is deliberately not echoed back.
func (s *EmailService) SendRegistrationEmail(to, name string) error {
	body, err := templates.RenderRegistration(templates.AccountEmailData{
		Name:      name,
		Intro:     s.config.Registration.Intro,
		NextSteps: s.config.Registration.NextSteps,
		BrandName: s.config.Branding.Name,
		Tagline:   s.config.Branding.Tagline,
	})
	if err != nil {
		return err
	}
	return s.send(to, s.config.Subjects.Registration, body)
}

// SendTempPasswordEmail delivers a generated temporary password
func (s *EmailService) SendTempPasswordEmail(to, tempPassword string) error {
	body, err := templates.RenderTempPassword(templates.TempPasswordData{
		TempPassword: tempPassword,
		Intro:        s.config.TempPassword.Intro,
		Warning:      s.config.TempPassword.Warning,
		BrandName:    s.config.Branding.Name,
		Tagline:      s.config.Branding.Tagline,
	})
	if err != nil {
		return err
	}
	return s.send(to, s.config.Subjects.TempPassword, body)
}
