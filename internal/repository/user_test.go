// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/repository"
	"github.com/statlight/statlight-auth/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "hash"}
	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotZero(t, user.CreatedAt)
	assert.Nil(t, user.EmailVerified)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.CreateUser(ctx, &models.User{Email: "ada@example.com"})
	require.NoError(t, err)

	err = repo.CreateUser(ctx, &models.User{Email: "ada@example.com"})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "ada@example.com", "hash")

	retrieved, err := repo.GetUserByEmail(ctx, "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "hash", retrieved.PasswordHash)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "ada@example.com", "hash")

	retrieved, err := repo.GetUserByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Email, retrieved.Email)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByID(context.Background(), "missing-id")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetEmailVerified(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")
	verifiedAt := time.Now().UTC().Truncate(time.Second)

	err := repo.SetEmailVerified(ctx, user.ID, verifiedAt)
	require.NoError(t, err)

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.EmailVerified)
	assert.WithinDuration(t, verifiedAt, *retrieved.EmailVerified, time.Second)
}

func TestSetEmailVerified_Monotonic(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")
	first := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, repo.SetEmailVerified(ctx, user.ID, first))
	// A later stamp must not overwrite the original one.
	require.NoError(t, repo.SetEmailVerified(ctx, user.ID, time.Now().UTC()))

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.EmailVerified)
	assert.WithinDuration(t, first, *retrieved.EmailVerified, time.Second)
}

func TestSetAvatarURL(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")

	err := repo.SetAvatarURL(ctx, user.ID, "https://cdn.example.com/a.png")
	require.NoError(t, err)

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", retrieved.AvatarURL)
}

func TestUpdateUserPassword(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "old-hash")

	err := repo.UpdateUserPassword(ctx, user.ID, "new-hash")
	require.NoError(t, err)

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", retrieved.PasswordHash)
}

func TestCountUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "ada@example.com", "hash")
	testutil.NewTestUser(t, repo, "grace@example.com", "hash")

	count, err := repo.CountUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSetUserRole(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")
	require.Equal(t, models.RoleUser, user.Role)

	require.NoError(t, repo.SetUserRole(ctx, user.ID, models.RoleAdmin))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.True(t, updated.IsAdmin())
}
