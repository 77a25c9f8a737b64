// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/statlight/statlight-auth/internal/services/password"
)

func TestHashAndVerify(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	ok, err := hasher.Verify("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_WrongPassword(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	ok, err := hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedHash(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	ok, err := hasher.Verify("Secret123", "not-a-bcrypt-hash")

	// A library failure must never report a successful match.
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	h2, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
