// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vinovest/sqlx"

	"github.com/statlight/statlight-auth/internal/models"
)

// CreateUser inserts a new user. ID, Role and timestamps are filled in when
// unset. Returns ErrDuplicate when the email is already registered.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.q().ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar_url, password_hash, email_verified, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.AvatarURL, user.PasswordHash,
		user.EmailVerified, user.Role, user.CreatedAt, user.UpdatedAt)
	return wrapError(err)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q(), &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Lookup is exact; emails are
// stored as given at registration.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q(), &user, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// SetEmailVerified stamps the user's email as verified. The flag is
// monotonic, an already verified user keeps the earlier timestamp.
func (r *Repository) SetEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	_, err := r.q().ExecContext(ctx,
		`UPDATE users SET email_verified = ?, updated_at = ? WHERE id = ? AND email_verified IS NULL`,
		verifiedAt, time.Now().UTC(), id)
	return wrapError(err)
}

// SetAvatarURL backfills a user's avatar.
func (r *Repository) SetAvatarURL(ctx context.Context, id, avatarURL string) error {
	_, err := r.q().ExecContext(ctx,
		`UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		avatarURL, time.Now().UTC(), id)
	return wrapError(err)
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.q().ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return wrapError(err)
}

// SetUserRole assigns a role to a user.
func (r *Repository) SetUserRole(ctx context.Context, id, role string) error {
	_, err := r.q().ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id)
	return wrapError(err)
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.q(), &count, `SELECT COUNT(*) FROM users`)
	return count, wrapError(err)
}
