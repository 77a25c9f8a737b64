// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/vinovest/sqlx"

	"github.com/statlight/statlight-auth/internal/models"
)

// CreateVerificationToken stores a new verification token hash for an email.
func (r *Repository) CreateVerificationToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO verification_tokens (email, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		email, tokenHash, expiresAt, time.Now().UTC())
	return wrapError(err)
}

// GetVerificationToken retrieves a verification token by hash.
func (r *Repository) GetVerificationToken(ctx context.Context, tokenHash string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := sqlx.GetContext(ctx, r.q(), &token,
		`SELECT * FROM verification_tokens WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// DeleteVerificationToken deletes a token by ID.
func (r *Repository) DeleteVerificationToken(ctx context.Context, tokenID int64) error {
	_, err := r.q().ExecContext(ctx, `DELETE FROM verification_tokens WHERE id = ?`, tokenID)
	return wrapError(err)
}

// DeleteVerificationTokensForEmail deletes all tokens for an email.
func (r *Repository) DeleteVerificationTokensForEmail(ctx context.Context, email string) error {
	_, err := r.q().ExecContext(ctx, `DELETE FROM verification_tokens WHERE email = ?`, email)
	return wrapError(err)
}

// CountVerificationTokensForEmail returns the number of live token rows for
// an email.
func (r *Repository) CountVerificationTokensForEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.q(), &count,
		`SELECT COUNT(*) FROM verification_tokens WHERE email = ?`, email)
	return count, wrapError(err)
}

// DeleteExpiredVerificationTokens removes all tokens past their expiry.
func (r *Repository) DeleteExpiredVerificationTokens(ctx context.Context) error {
	_, err := r.q().ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires_at < ?`, time.Now().UTC())
	return wrapError(err)
}
