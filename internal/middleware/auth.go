// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statlight/statlight-auth/internal/auth"
	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/services/session"
)

// LoadSession resolves the current user through the session aggregator and
// stores it in the request context. Runs on every request; unauthenticated
// requests pass through with no user set.
func LoadSession(sessions *session.Aggregator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := sessions.Resolve(c.Response(), c.Request())
			if user != nil {
				ctx := auth.SetUser(c.Request().Context(), user)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		return next(c)
	}
}

// RequireAdmin rejects requests from users without the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := auth.GetUser(c.Request().Context())
		if user == nil || user.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	}
}
