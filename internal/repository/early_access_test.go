// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlight/statlight-auth/internal/testutil"
)

func TestCreateEarlyAccessRequest(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.CreateEarlyAccessRequest(ctx, "ada@example.com", nil)
	require.NoError(t, err)

	req, err := repo.GetEarlyAccessRequest(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Nil(t, req.UserID)
}

func TestCreateEarlyAccessRequest_Repeated(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateEarlyAccessRequest(ctx, "ada@example.com", nil))

	// A repeated request must succeed silently and keep the original row.
	err := repo.CreateEarlyAccessRequest(ctx, "ada@example.com", nil)
	assert.NoError(t, err)
}

func TestCreateEarlyAccessRequest_LinkedUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ada@example.com", "hash")

	err := repo.CreateEarlyAccessRequest(ctx, "ada@example.com", &user.ID)
	require.NoError(t, err)

	req, err := repo.GetEarlyAccessRequest(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, req.UserID)
	assert.Equal(t, user.ID, *req.UserID)
}

func TestListEarlyAccessRequests(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateEarlyAccessRequest(ctx, "ada@example.com", nil))
	require.NoError(t, repo.CreateEarlyAccessRequest(ctx, "grace@example.com", nil))

	requests, err := repo.ListEarlyAccessRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestListEarlyAccessRequests_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	requests, err := repo.ListEarlyAccessRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, requests)
}
