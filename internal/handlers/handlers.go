// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package handlers exposes the authentication core over a JSON API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statlight/statlight-auth/internal/services/identity"
	"github.com/statlight/statlight-auth/internal/services/oauth"
	"github.com/statlight/statlight-auth/internal/services/session"
)

// Handlers bundles the request handlers and their collaborators.
type Handlers struct {
	identity *identity.Service
	sessions *session.Aggregator
	oauth    *oauth.Verifier
}

// New creates a Handlers instance.
func New(identitySvc *identity.Service, sessions *session.Aggregator, verifier *oauth.Verifier) *Handlers {
	return &Handlers{
		identity: identitySvc,
		sessions: sessions,
		oauth:    verifier,
	}
}

// Health reports service liveness.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
