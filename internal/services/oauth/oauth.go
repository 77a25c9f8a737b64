// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package oauth verifies Google and Apple identity assertions and normalizes
// them before they reach the identity reconciler.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Provider names accepted by the verifier.
const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

// Published signing-key locations.
const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	appleJWKSURL  = "https://appleid.apple.com/auth/keys"
)

// keyFetchTimeout bounds the initial signing-key fetch. On timeout the
// assertion path fails closed, an unverified claim is never trusted.
const keyFetchTimeout = 10 * time.Second

// ErrInvalidAssertion covers signature failures, claim mismatches, unknown
// providers and key-fetch timeouts.
var ErrInvalidAssertion = errors.New("invalid assertion")

// Assertion is a normalized, verified provider identity. Only the fields the
// reconciler needs survive normalization.
type Assertion struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

type providerKeys struct {
	keyfunc  jwt.Keyfunc
	issuers  []string
	audience string
}

// Verifier validates provider ID tokens against the providers' published
// signing keys. Signature and key-id matching happen before any claim is
// trusted.
type Verifier struct {
	providers map[string]providerKeys
}

// NewVerifier creates a Verifier that fetches Google and Apple signing keys
// over HTTPS. The fetch is bounded by keyFetchTimeout.
func NewVerifier(ctx context.Context, googleClientID, appleClientID string) (*Verifier, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, keyFetchTimeout)
	defer cancel()

	googleKeys, err := keyfunc.NewDefaultCtx(fetchCtx, []string{googleJWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google signing keys: %w", err)
	}
	appleKeys, err := keyfunc.NewDefaultCtx(fetchCtx, []string{appleJWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch apple signing keys: %w", err)
	}

	return NewVerifierWithKeyfuncs(googleKeys.Keyfunc, appleKeys.Keyfunc, googleClientID, appleClientID), nil
}

// NewVerifierWithKeyfuncs creates a Verifier with explicit key sources.
// Tests inject locally generated keys here.
func NewVerifierWithKeyfuncs(google, apple jwt.Keyfunc, googleClientID, appleClientID string) *Verifier {
	return &Verifier{
		providers: map[string]providerKeys{
			ProviderGoogle: {
				keyfunc:  google,
				issuers:  []string{"https://accounts.google.com", "accounts.google.com"},
				audience: googleClientID,
			},
			ProviderApple: {
				keyfunc:  apple,
				issuers:  []string{"https://appleid.apple.com"},
				audience: appleClientID,
			},
		},
	}
}

// Verify checks an ID token's signature and claims and returns the
// normalized assertion. Every failure collapses into ErrInvalidAssertion.
func (v *Verifier) Verify(provider, rawIDToken string) (*Assertion, error) {
	keys, ok := v.providers[provider]
	if !ok {
		return nil, ErrInvalidAssertion
	}

	parsed, err := jwt.Parse(rawIDToken, keys.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg()}),
		jwt.WithAudience(keys.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidAssertion
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidAssertion
	}

	iss, _ := claims["iss"].(string)
	if !issuerAllowed(iss, keys.issuers) {
		return nil, ErrInvalidAssertion
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, ErrInvalidAssertion
	}

	assertion := &Assertion{
		Provider: provider,
		Subject:  sub,
		Email:    email,
	}
	if name, ok := claims["name"].(string); ok {
		assertion.Name = name
	}
	if picture, ok := claims["picture"].(string); ok {
		assertion.AvatarURL = picture
	}
	return assertion, nil
}

func issuerAllowed(iss string, allowed []string) bool {
	for _, a := range allowed {
		if iss == a {
			return true
		}
	}
	return false
}
