// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlight/statlight-auth/internal/repository"
	"github.com/statlight/statlight-auth/internal/testutil"
)

func TestCreateVerificationToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(24 * time.Hour)
	err := repo.CreateVerificationToken(ctx, "ada@example.com", "abc123hash", expiresAt)

	require.NoError(t, err)

	token, err := repo.GetVerificationToken(ctx, "abc123hash")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", token.Email)
	assert.WithinDuration(t, expiresAt, token.ExpiresAt, time.Second)
}

func TestGetVerificationToken_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetVerificationToken(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteVerificationToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateVerificationToken(ctx, "ada@example.com", "hash1", time.Now().Add(time.Hour)))
	token, err := repo.GetVerificationToken(ctx, "hash1")
	require.NoError(t, err)

	err = repo.DeleteVerificationToken(ctx, token.ID)
	require.NoError(t, err)

	_, err = repo.GetVerificationToken(ctx, "hash1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteVerificationTokensForEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateVerificationToken(ctx, "ada@example.com", "hash1", time.Now().Add(time.Hour)))
	require.NoError(t, repo.CreateVerificationToken(ctx, "ada@example.com", "hash2", time.Now().Add(time.Hour)))
	require.NoError(t, repo.CreateVerificationToken(ctx, "grace@example.com", "hash3", time.Now().Add(time.Hour)))

	err := repo.DeleteVerificationTokensForEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	count, err := repo.CountVerificationTokensForEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other emails are untouched
	count, err = repo.CountVerificationTokensForEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteExpiredVerificationTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateVerificationToken(ctx, "ada@example.com", "expired", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.CreateVerificationToken(ctx, "grace@example.com", "live", time.Now().Add(time.Hour)))

	err := repo.DeleteExpiredVerificationTokens(ctx)
	require.NoError(t, err)

	_, err = repo.GetVerificationToken(ctx, "expired")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetVerificationToken(ctx, "live")
	assert.NoError(t, err)
}
