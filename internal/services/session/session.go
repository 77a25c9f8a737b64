// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package session resolves the effective authenticated identity for a
// request. Two sources exist side by side: the managed cookie session and
// the legacy bearer token. The managed session always wins; the legacy path
// is consulted only when the managed session is confirmed absent.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/services/token"
)

// Cookie names for the two session paths.
const (
	DefaultCookieName       = "statlight_session"
	DefaultLegacyCookieName = "statlight_token"
)

// User is the unified session identity exposed to callers. Claims are a
// snapshot from issuance time; Resolve backfills a missing avatar from the
// repository on a best-effort basis.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
}

// UserSource is the repository lookup collaborator.
type UserSource interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Aggregator resolves, establishes and tears down both session paths.
type Aggregator struct {
	codec            *securecookie.SecureCookie
	tokens           *token.Service
	users            UserSource
	cookieName       string
	legacyCookieName string
	maxAge           int
	secure           bool
}

// NewAggregator creates a session Aggregator. hashKey signs the managed
// cookie, blockKey (optional, may be nil) additionally encrypts it.
func NewAggregator(hashKey, blockKey []byte, tokens *token.Service, users UserSource, cookieName string, maxAge int, secure bool) *Aggregator {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(maxAge)
	return &Aggregator{
		codec:            codec,
		tokens:           tokens,
		users:            users,
		cookieName:       cookieName,
		legacyCookieName: DefaultLegacyCookieName,
		maxAge:           maxAge,
		secure:           secure,
	}
}

// Resolve determines the current user for the request, or nil when no valid
// session exists on either path. Resolution is read-only against the
// request and idempotent.
func (a *Aggregator) Resolve(w http.ResponseWriter, r *http.Request) *User {
	// Path 1: managed session. When it authenticates, the legacy path is
	// not consulted at all.
	if user := a.resolveManaged(r); user != nil {
		return a.backfillAvatar(r.Context(), user)
	}

	// Path 2: legacy bearer token.
	raw := a.legacyToken(r)
	if raw == "" {
		return nil
	}

	claims, err := a.tokens.Verify(raw)
	if err != nil {
		a.discardLegacy(w)
		return nil
	}

	// The bearer path confirms the account still exists before trusting
	// the snapshot.
	dbUser, err := a.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		a.discardLegacy(w)
		return nil
	}

	return a.backfillAvatar(r.Context(), FromModel(dbUser))
}

// Establish sets the managed session cookie and returns a legacy bearer
// token for clients still on the old path.
func (a *Aggregator) Establish(w http.ResponseWriter, user *models.User) (string, error) {
	claims := FromModel(user)
	encoded, err := a.codec.Encode(a.cookieName, claims)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   a.maxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})

	bearer, err := a.tokens.Issue(user.ID, user.Email, user.Name, user.AvatarURL, user.Role)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.legacyCookieName,
		Value:    bearer,
		Path:     "/",
		MaxAge:   a.maxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return bearer, nil
}

// Logout invalidates both paths. Clearing only one of them would leave a
// client that looks logged out but still holds a working credential.
func (a *Aggregator) Logout(w http.ResponseWriter) {
	a.expireCookie(w, a.cookieName)
	a.discardLegacy(w)
}

// FromModel maps a repository user to session claims, defaulting the role.
func FromModel(u *models.User) *User {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      role,
	}
}

// resolveManaged decodes the managed cookie. A missing, expired or
// undecodable cookie means the managed session is confirmed absent.
func (a *Aggregator) resolveManaged(r *http.Request) *User {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil {
		return nil
	}

	user := &User{}
	if err := a.codec.Decode(a.cookieName, cookie.Value, user); err != nil {
		return nil
	}
	if user.ID == "" {
		return nil
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return user
}

// legacyToken extracts the stored bearer token, preferring the
// Authorization header over the legacy cookie.
func (a *Aggregator) legacyToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}

	cookie, err := r.Cookie(a.legacyCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// backfillAvatar enriches the session with a repository avatar when the
// snapshot has none. Failure never fails the resolution.
func (a *Aggregator) backfillAvatar(ctx context.Context, user *User) *User {
	if user.AvatarURL != "" {
		return user
	}

	dbUser, err := a.users.GetUserByID(ctx, user.ID)
	if err != nil {
		slog.Warn("avatar_backfill_failed", "user_id", user.ID, "error", err)
		return user
	}
	user.AvatarURL = dbUser.AvatarURL
	return user
}

// discardLegacy drops the stored legacy token; an invalid token is never
// retried.
func (a *Aggregator) discardLegacy(w http.ResponseWriter) {
	a.expireCookie(w, a.legacyCookieName)
}

func (a *Aggregator) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
