// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package models

import "time"

// EarlyAccessRequest is one row per requesting email. UserID is set when the
// requester was authenticated at the time of the request.
type EarlyAccessRequest struct { //nolint:govet // fieldalignment: readability over optimization
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
