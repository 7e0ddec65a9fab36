package mailer

import (
	"context"
	"fmt"

	"modqueue/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message through one provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Service is the surface handlers depend on.
type Service interface {
	SendWelcome(ctx context.Context, email string) error
	SendPasswordSetConfirmation(ctx context.Context, email string) error
}

// Mailer renders account emails and delivers them through a Sender.
type Mailer struct {
	sender      Sender
	frontendURL string
}

// New builds a Mailer from configuration.
func New(cfg config.MailConfig) (*Mailer, error) {
	var sender Sender
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("invalid sendgrid configuration")
		}
		sender = &sendGridSender{
			key:      cfg.SendGridKey,
			from:     cfg.From,
			fromName: cfg.FromName,
		}
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPort == 0 || cfg.From == "" {
			return nil, fmt.Errorf("invalid smtp configuration")
		}
		sender = &smtpSender{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUser,
			password: cfg.SMTPPassword,
			from:     cfg.From,
		}
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}

	return &Mailer{sender: sender, frontendURL: cfg.FrontendURL}, nil
}

// NewWithSender builds a Mailer over an existing Sender.
func NewWithSender(sender Sender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: frontendURL}
}
