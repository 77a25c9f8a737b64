// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlight/statlight-auth/internal/auth"
	"github.com/statlight/statlight-auth/internal/middleware"
	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/services/session"
	"github.com/statlight/statlight-auth/internal/services/token"
	"github.com/statlight/statlight-auth/internal/testutil"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func withUser(c echo.Context, user *session.User) echo.Context {
	ctx := auth.SetUser(c.Request().Context(), user)
	c.SetRequest(c.Request().WithContext(ctx))
	return c
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/protected", nil)
	c = withUser(c, &session.User{ID: "u1", Role: models.RoleUser})
	require.NoError(t, middleware.RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = testutil.NewEchoContext(e, http.MethodGet, "/protected", nil)
	require.NoError(t, middleware.RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/admin", nil)
	c = withUser(c, &session.User{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, middleware.RequireAdmin(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A plain user is authenticated but still forbidden.
	c, rec = testutil.NewEchoContext(e, http.MethodGet, "/admin", nil)
	c = withUser(c, &session.User{ID: "u2", Role: models.RoleUser})
	require.NoError(t, middleware.RequireAdmin(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = testutil.NewEchoContext(e, http.MethodGet, "/admin", nil)
	require.NoError(t, middleware.RequireAdmin(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoadSession(t *testing.T) {
	e := echo.New()
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")

	tokens := token.NewService([]byte("test-secret"), "statlight", time.Hour)
	sessions := session.NewAggregator(
		[]byte("0123456789abcdef0123456789abcdef"),
		nil, tokens, repo, "", 3600, false)

	bearer, err := tokens.Issue(user.ID, user.Email, user.Name, "", user.Role)
	require.NoError(t, err)

	var seen *session.User
	capture := func(c echo.Context) error {
		seen = auth.GetUser(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	}

	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set("Authorization", "Bearer "+bearer)
	require.NoError(t, middleware.LoadSession(sessions)(capture)(c))
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)

	// Without credentials the request passes through unauthenticated.
	seen = nil
	c, _ = testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	require.NoError(t, middleware.LoadSession(sessions)(capture)(c))
	assert.Nil(t, seen)
}
