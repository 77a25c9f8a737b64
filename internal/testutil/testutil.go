// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/statlight/statlight-auth/internal/database"
	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a credentials user in the database.
func NewTestUser(t *testing.T, repo *repository.Repository, email, passwordHash string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: passwordHash,
	}
	err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return user
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// FakeNotifier records outbound notifications instead of sending them.
type FakeNotifier struct {
	mu            sync.Mutex
	Verifications []Notification
	Welcomes      []Notification
	Resets        []Notification
	Err           error // when set, every send fails with this error
}

// Notification is one recorded send.
type Notification struct {
	To    string
	Token string
	Name  string
}

func (f *FakeNotifier) SendVerificationEmail(_ context.Context, to, token, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Verifications = append(f.Verifications, Notification{To: to, Token: token, Name: name})
	return nil
}

func (f *FakeNotifier) SendWelcomeEmail(_ context.Context, to, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Welcomes = append(f.Welcomes, Notification{To: to, Name: name})
	return nil
}

func (f *FakeNotifier) SendPasswordResetEmail(_ context.Context, to, token, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Resets = append(f.Resets, Notification{To: to, Token: token, Name: name})
	return nil
}
