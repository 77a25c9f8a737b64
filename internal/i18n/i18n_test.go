// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/statlight/statlight-auth/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestT(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Welcome to Statlight", i18n.T(ctx, "email_welcome_subject"))
}

func TestT_German(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Willkommen bei Statlight", i18n.T(ctx, "email_welcome_subject"))
}

func TestT_FallsBackToEnglish(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.French)

	assert.Equal(t, "Welcome to Statlight", i18n.T(ctx, "email_welcome_subject"))
}

func TestT_UnknownMessageID(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	// Unknown IDs surface as themselves rather than breaking the email.
	assert.Equal(t, "does_not_exist", i18n.T(ctx, "does_not_exist"))
}

func TestT_NoLocaleOnContext(t *testing.T) {
	assert.Equal(t, "Welcome to Statlight", i18n.T(context.Background(), "email_welcome_subject"))
}

func TestTData(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Name":      "Ada",
		"VerifyURL": "https://statlight.example.com/auth/verify-email?token=abc",
	})

	require.Contains(t, body, "Hi Ada,")
	assert.Contains(t, body, "https://statlight.example.com/auth/verify-email?token=abc")
}

func TestGetLocale(t *testing.T) {
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))

	ctx := i18n.WithLocale(context.Background(), language.German)
	assert.Equal(t, "de", i18n.GetLocale(ctx))
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"de-DE,de;q=0.9,en;q=0.8", language.German},
		{"en-US,en;q=0.9", language.English},
		{"fr-FR", language.English},
		{"", language.English},
	}
	for _, tt := range tests {
		got := i18n.MatchLanguage(tt.header)
		base, _ := got.Base()
		wantBase, _ := tt.want.Base()
		assert.Equal(t, wantBase, base, "header %q", tt.header)
	}
}
