// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package token issues and verifies the signed bearer tokens of the legacy
// authentication path.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the bearer token lifetime for the legacy path.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers tampered, malformed and expired tokens alike.
// Callers must not be able to distinguish the cases.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the snapshot of user fields embedded in a bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Role      string `json:"role"`
}

// Service signs and verifies bearer tokens with an HMAC secret.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService creates a token Service. A zero ttl falls back to DefaultTTL.
func NewService(secret []byte, issuer string, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue signs a bearer token carrying the given claims snapshot.
func (s *Service) Issue(userID, email, name, avatarURL, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:    userID,
		Email:     email,
		Name:      name,
		AvatarURL: avatarURL,
		Role:      role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a bearer token. Any failure, bad signature,
// malformed payload or expiry, collapses into ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
