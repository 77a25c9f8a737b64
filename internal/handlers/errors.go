// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statlight/statlight-auth/internal/services/identity"
	"github.com/statlight/statlight-auth/internal/services/oauth"
)

// fail maps service errors to JSON responses. Caller-input errors keep
// their typed message; everything else is logged with request context and
// surfaces as a generic failure.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
	case errors.Is(err, identity.ErrEmailAlreadyRegistered):
		return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
	case errors.Is(err, identity.ErrInvalidOrExpiredToken):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired token"})
	case errors.Is(err, identity.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid email address"})
	case errors.Is(err, oauth.ErrInvalidAssertion):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid identity assertion"})
	default:
		slog.Error("request_failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
