// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// SessionUser is the context key for the resolved session user.
type SessionUser struct{}
