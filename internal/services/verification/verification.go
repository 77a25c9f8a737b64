// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package verification manages the single-use token lifecycle for email
// verification and password reset. One token namespace serves both purposes.
package verification

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/statlight/statlight-auth/internal/repository"
)

const (
	// TokenLength is the number of random bytes per token.
	TokenLength = 32
	// TokenExpiry is how long tokens stay redeemable.
	TokenExpiry = 24 * time.Hour
)

// ErrInvalidOrExpiredToken is returned for missing and expired tokens alike.
// Redemption must not leak which case occurred.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

// Manager issues and redeems verification tokens against the repository.
type Manager struct {
	repo *repository.Repository
}

// NewManager creates a verification token Manager.
func NewManager(repo *repository.Repository) *Manager {
	return &Manager{repo: repo}
}

// Issue creates a fresh token for the email and returns its plaintext. Any
// prior tokens for the email are removed in the same transaction, so at most
// one live token exists per email.
func (m *Manager) Issue(ctx context.Context, email string) (string, error) {
	plaintext, hash, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().UTC().Add(TokenExpiry)

	err = m.repo.Tx(ctx, func(tx *repository.Repository) error {
		if err := tx.DeleteVerificationTokensForEmail(ctx, email); err != nil {
			return err
		}
		return tx.CreateVerificationToken(ctx, email, hash, expiresAt)
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}
	return plaintext, nil
}

// Redeem looks up a token by its plaintext, runs apply for the owning email
// and deletes the row, all in one transaction. An expired token is deleted
// on sight and reported the same way as a missing one. The apply side effect
// is never visible without the token also being consumed.
func (m *Manager) Redeem(ctx context.Context, token string, apply func(tx *repository.Repository, email string) error) error {
	hash := HashToken(token)

	var redeemed bool
	err := m.repo.Tx(ctx, func(tx *repository.Repository) error {
		row, err := tx.GetVerificationToken(ctx, hash)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if row.Expired(time.Now()) {
			// Delete so a second redemption of the same string fails
			// identically, then fall through to the unified failure.
			return tx.DeleteVerificationToken(ctx, row.ID)
		}

		if err := apply(tx, row.Email); err != nil {
			return err
		}
		if err := tx.DeleteVerificationToken(ctx, row.ID); err != nil {
			return err
		}
		redeemed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to redeem verification token: %w", err)
	}
	if !redeemed {
		return ErrInvalidOrExpiredToken
	}
	return nil
}

// Purge removes all expired tokens. Housekeeping only; redemption already
// treats expired rows as invalid.
func (m *Manager) Purge(ctx context.Context) error {
	return m.repo.DeleteExpiredVerificationTokens(ctx)
}

// HashToken computes the SHA256 hash under which a token is stored.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateToken returns (plaintext, storage hash).
func generateToken() (string, string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	plaintext := hex.EncodeToString(bytes)
	return plaintext, HashToken(plaintext), nil
}
