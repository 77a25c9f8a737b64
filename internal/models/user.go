// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the canonical account record. Email is the federation key: a
// credentials signup and a Google/Apple sign-in with the same email land on
// this same row.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	Name          string     `db:"name" json:"name,omitempty"`
	AvatarURL     string     `db:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	EmailVerified *time.Time `db:"email_verified" json:"email_verified,omitempty"`
	Role          string     `db:"role" json:"role"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account has a usable password. OAuth-only
// accounts store the empty sentinel and can never sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// IsVerified reports whether the email has been verified. Monotonic: once
// set, EmailVerified is never cleared.
func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
