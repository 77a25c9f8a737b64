// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package models

import "time"

// VerificationToken is a single-use token for email verification or password
// reset, keyed by the owning email. Only the SHA256 hash of the token is
// stored. At most one live token exists per email; issuing a new one deletes
// all prior tokens for that email.
type VerificationToken struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	TokenHash string    `db:"token_hash" json:"-"` // SHA256 hash
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
