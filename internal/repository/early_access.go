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

// CreateEarlyAccessRequest records an early-access request. A repeated
// request for the same email is a no-op, callers respond identically either
// way to avoid account enumeration.
func (r *Repository) CreateEarlyAccessRequest(ctx context.Context, email string, userID *string) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO early_access_requests (id, email, user_id, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), email, userID, time.Now().UTC())
	return wrapError(err)
}

// ListEarlyAccessRequests returns all early-access requests, newest first.
func (r *Repository) ListEarlyAccessRequests(ctx context.Context) ([]models.EarlyAccessRequest, error) {
	requests := []models.EarlyAccessRequest{}
	err := sqlx.SelectContext(ctx, r.q(), &requests,
		`SELECT * FROM early_access_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrapError(err)
	}
	return requests, nil
}

// GetEarlyAccessRequest retrieves an early-access request by email.
func (r *Repository) GetEarlyAccessRequest(ctx context.Context, email string) (*models.EarlyAccessRequest, error) {
	var req models.EarlyAccessRequest
	err := sqlx.GetContext(ctx, r.q(), &req,
		`SELECT * FROM early_access_requests WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &req, nil
}
