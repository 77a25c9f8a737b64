// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package email delivers transactional mail for the authentication flows.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/statlight/statlight-auth/internal/config"
	"github.com/statlight/statlight-auth/internal/i18n"
)

// Notifier is the outbound mail collaborator consumed by the identity
// reconciler. Delivery is fire-and-forget from the caller's perspective,
// failures are logged and never unwind an identity mutation.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, token, name string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendPasswordResetEmail(ctx context.Context, to, token, name string) error
}

// Service sends email over SMTP using go-mail.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendVerificationEmail sends the email-verification link for a fresh token.
func (s *Service) SendVerificationEmail(ctx context.Context, to, token, name string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", s.baseURL, token)

	subject := i18n.T(ctx, "email_verification_subject")
	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Name":      displayName(name),
		"VerifyURL": verifyURL,
	})

	return s.send(to, subject, body)
}

// SendWelcomeEmail greets a newly reconciled account.
func (s *Service) SendWelcomeEmail(ctx context.Context, to, name string) error {
	subject := i18n.T(ctx, "email_welcome_subject")
	body := i18n.TData(ctx, "email_welcome_body", map[string]any{
		"Name": displayName(name),
	})

	return s.send(to, subject, body)
}

// SendPasswordResetEmail sends the password-reset link for a fresh token.
func (s *Service) SendPasswordResetEmail(ctx context.Context, to, token, name string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", s.baseURL, token)

	subject := i18n.T(ctx, "email_password_reset_subject")
	body := i18n.TData(ctx, "email_password_reset_body", map[string]any{
		"Name":     displayName(name),
		"ResetURL": resetURL,
	})

	return s.send(to, subject, body)
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Implicit TLS for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
