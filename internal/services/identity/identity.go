// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package identity reconciles inbound identity assertions, credentials or
// an OAuth profile, into the canonical user record.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/repository"
	"github.com/statlight/statlight-auth/internal/services/email"
	"github.com/statlight/statlight-auth/internal/services/oauth"
	"github.com/statlight/statlight-auth/internal/services/password"
	"github.com/statlight/statlight-auth/internal/services/verification"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// password sign-in against an OAuth-only account. Callers must not be
	// able to distinguish the cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailAlreadyRegistered is returned when registering an email that
	// already has an account.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email format")
)

// ErrInvalidOrExpiredToken re-exported for callers of the reset/verify flows.
var ErrInvalidOrExpiredToken = verification.ErrInvalidOrExpiredToken

// Service is the identity reconciler.
type Service struct {
	repo     *repository.Repository
	hasher   *password.Hasher
	tokens   *verification.Manager
	notifier email.Notifier
}

// NewService creates an identity Service. All collaborators are injected,
// there are no ambient singletons.
func NewService(repo *repository.Repository, hasher *password.Hasher, tokens *verification.Manager, notifier email.Notifier) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Result is the common postcondition of all reconciliation entry points.
type Result struct {
	User      *models.User
	IsNewUser bool
}

// Register creates a credentials account. The email starts unverified; a
// verification token is issued and both the verification and welcome emails
// are triggered. Notifier failures are logged, never surfaced.
func (s *Service) Register(ctx context.Context, name, emailAddr, plaintext string) (*models.User, error) {
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return nil, ErrInvalidEmail
	}

	_, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err == nil {
		return nil, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        emailAddr,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// The storage-level unique constraint is the final arbiter for
		// concurrent registrations of the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.Email)
	if err != nil {
		slog.Error("verification_token_issue_failed", "user_id", user.ID, "error", err)
	} else if err := s.notifier.SendVerificationEmail(ctx, user.Email, token, user.Name); err != nil {
		slog.Error("verification_email_failed", "user_id", user.ID, "error", err)
	}

	if err := s.notifier.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		slog.Error("welcome_email_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// SignIn authenticates a credentials account. The first successful sign-in
// (detected via the unset verification flag) marks the email verified. The
// welcome email was already sent at registration and is not re-sent here.
func (s *Service) SignIn(ctx context.Context, emailAddr, plaintext string) (*Result, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.CompareDummy(plaintext)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// OAuth-only accounts hold the sentinel hash; indistinguishable from a
	// wrong password for the caller.
	if !user.HasPassword() {
		s.hasher.CompareDummy(plaintext)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified() {
		now := time.Now().UTC()
		if err := s.repo.SetEmailVerified(ctx, user.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = &now
		slog.Info("first_login", "user_id", user.ID)
	}

	slog.Info("signin_success", "user_id", user.ID)
	return &Result{User: user}, nil
}

// ReconcileOAuth maps a verified provider assertion onto the canonical user
// record. Identity is federated by email, not by provider subject: an
// assertion for an email that already has a credentials account lands on
// that account, promotes it to verified and leaves its password untouched.
func (s *Service) ReconcileOAuth(ctx context.Context, assertion *oauth.Assertion) (*Result, error) {
	user, err := s.repo.GetUserByEmail(ctx, assertion.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return s.createFromAssertion(ctx, assertion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.updateFromAssertion(ctx, user, assertion)
}

func (s *Service) createFromAssertion(ctx context.Context, assertion *oauth.Assertion) (*Result, error) {
	now := time.Now().UTC()
	user := &models.User{
		Email:         assertion.Email,
		Name:          assertion.Name,
		AvatarURL:     assertion.AvatarURL,
		EmailVerified: &now, // provider assertions are trusted as pre-verified
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race against a concurrent reconciliation for the same
			// email (e.g. a double-submitted callback); fetch and update.
			existing, getErr := s.repo.GetUserByEmail(ctx, assertion.Email)
			if getErr != nil {
				return nil, fmt.Errorf("failed to fetch user after duplicate create: %w", getErr)
			}
			return s.updateFromAssertion(ctx, existing, assertion)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.notifier.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		slog.Error("welcome_email_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("oauth_register_success", "user_id", user.ID, "provider", assertion.Provider)
	return &Result{User: user, IsNewUser: true}, nil
}

func (s *Service) updateFromAssertion(ctx context.Context, user *models.User, assertion *oauth.Assertion) (*Result, error) {
	if user.AvatarURL == "" && assertion.AvatarURL != "" {
		if err := s.repo.SetAvatarURL(ctx, user.ID, assertion.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to backfill avatar: %w", err)
		}
		user.AvatarURL = assertion.AvatarURL
	}

	if !user.IsVerified() {
		now := time.Now().UTC()
		if err := s.repo.SetEmailVerified(ctx, user.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = &now
		slog.Info("oauth_verified_existing_account", "user_id", user.ID, "provider", assertion.Provider)
	}

	slog.Info("oauth_signin_success", "user_id", user.ID, "provider", assertion.Provider)
	return &Result{User: user}, nil
}

// RequestPasswordReset issues a reset token and mails it. For an unknown
// email it silently succeeds so callers can present the same message either
// way.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Info("password_reset_unknown_email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.Email)
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, token, user.Name); err != nil {
		slog.Error("password_reset_email_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("password_reset_requested", "user_id", user.ID)
	return nil
}

// ResetPassword redeems a reset token and writes the new password hash.
// Hash write and token deletion commit together.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.tokens.Redeem(ctx, token, func(tx *repository.Repository, emailAddr string) error {
		user, err := tx.GetUserByEmail(ctx, emailAddr)
		if errors.Is(err, repository.ErrNotFound) {
			// Token outlived its account; present the unified failure.
			return verification.ErrInvalidOrExpiredToken
		}
		if err != nil {
			return err
		}
		if err := tx.UpdateUserPassword(ctx, user.ID, passwordHash); err != nil {
			return err
		}
		slog.Info("password_reset_success", "user_id", user.ID)
		return nil
	})
}

// VerifyEmail redeems a verification token and stamps the email verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	return s.tokens.Redeem(ctx, token, func(tx *repository.Repository, emailAddr string) error {
		user, err := tx.GetUserByEmail(ctx, emailAddr)
		if errors.Is(err, repository.ErrNotFound) {
			return verification.ErrInvalidOrExpiredToken
		}
		if err != nil {
			return err
		}
		if err := tx.SetEmailVerified(ctx, user.ID, time.Now().UTC()); err != nil {
			return err
		}
		slog.Info("email_verified", "user_id", user.ID)
		return nil
	})
}

// ListEarlyAccessRequests returns the early-access list for admin review,
// newest first.
func (s *Service) ListEarlyAccessRequests(ctx context.Context) ([]models.EarlyAccessRequest, error) {
	return s.repo.ListEarlyAccessRequests(ctx)
}

// RequestEarlyAccess records an early-access request. Repeated requests for
// the same email succeed silently.
func (s *Service) RequestEarlyAccess(ctx context.Context, emailAddr string, userID *string) error {
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return ErrInvalidEmail
	}
	if err := s.repo.CreateEarlyAccessRequest(ctx, emailAddr, userID); err != nil {
		return fmt.Errorf("failed to record early access request: %w", err)
	}
	return nil
}
