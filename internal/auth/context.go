// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"github.com/statlight/statlight-auth/internal/ctxkeys"
	"github.com/statlight/statlight-auth/internal/services/session"
)

// SetUser stores the resolved session user in the context.
func SetUser(ctx context.Context, user *session.User) context.Context {
	return context.WithValue(ctx, ctxkeys.SessionUser{}, user)
}

// GetUser returns the session user from the context, or nil if not
// authenticated.
func GetUser(ctx context.Context) *session.User {
	if user, ok := ctx.Value(ctxkeys.SessionUser{}).(*session.User); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}
