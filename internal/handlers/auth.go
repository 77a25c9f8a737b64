// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statlight/statlight-auth/internal/auth"
	"github.com/statlight/statlight-auth/internal/models"
)

// userResponse is the externally visible user shape. The password hash never
// leaves the service.
type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		Role:          u.Role,
		EmailVerified: u.IsVerified(),
	}
}

// RegisterRequest is the request body for credentials registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a credentials account.
func (h *Handlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	user, err := h.identity.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// SignInRequest is the request body for credentials sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates credentials and establishes both session paths.
func (h *Handlers) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := h.identity.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	bearer, err := h.sessions.Establish(c.Response(), result.User)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":  toUserResponse(result.User),
		"token": bearer,
	})
}

// OAuthRequest carries a provider-signed ID token.
type OAuthRequest struct {
	IDToken string `json:"id_token"`
}

// OAuthCallback verifies a Google or Apple ID token, reconciles the identity
// and establishes both session paths.
func (h *Handlers) OAuthCallback(c echo.Context) error {
	var req OAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	assertion, err := h.oauth.Verify(c.Param("provider"), req.IDToken)
	if err != nil {
		return fail(c, err)
	}

	result, err := h.identity.ReconcileOAuth(c.Request().Context(), assertion)
	if err != nil {
		return fail(c, err)
	}

	bearer, err := h.sessions.Establish(c.Response(), result.User)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":     toUserResponse(result.User),
		"token":    bearer,
		"new_user": result.IsNewUser,
	})
}

// Me returns the authenticated session user. Routed behind RequireAuth, so
// an unauthenticated request never reaches this handler.
func (h *Handlers) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.GetUser(c.Request().Context()))
}

// EarlyAccessList returns all early-access requests for admin review.
func (h *Handlers) EarlyAccessList(c echo.Context) error {
	requests, err := h.identity.ListEarlyAccessRequests(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": requests})
}

// Session returns the current session user, or null when unauthenticated.
func (h *Handlers) Session(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// Logout tears down both session paths.
func (h *Handlers) Logout(c echo.Context) error {
	h.sessions.Logout(c.Response())
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// EmailRequest is a request body carrying only an email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// ForgotPassword requests a password reset. The response is identical
// whether or not the email exists.
func (h *Handlers) ForgotPassword(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := h.identity.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "if the address exists, a reset email has been sent",
	})
}

// ResetPasswordRequest is the request body for password reset redemption.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword redeems a reset token and sets the new password.
func (h *Handlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Token == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "token and password are required"})
	}

	if err := h.identity.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "password updated"})
}

// VerifyEmail redeems an email-verification token.
func (h *Handlers) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "token is required"})
	}

	if err := h.identity.VerifyEmail(c.Request().Context(), token); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "email verified"})
}

// EarlyAccess records an early-access request. The response is identical
// whether or not the email was already on the list.
func (h *Handlers) EarlyAccess(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	var userID *string
	if user := auth.GetUser(c.Request().Context()); user != nil {
		userID = &user.ID
	}

	if err := h.identity.RequestEarlyAccess(c.Request().Context(), req.Email, userID); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "you're on the list"})
}
