// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/statlight/statlight-auth/internal/config"
)

func parse(t *testing.T, args ...string) *config.Config {
	t.Helper()
	var cfg *config.Config
	cmd := &cli.Command{
		Flags: config.Flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg = config.NewFromCLI(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"statlight"}, args...)))
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./data/auth.db", cfg.Database.DSN)
	assert.Equal(t, 168, cfg.Auth.BearerTTLHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "statlight_session", cfg.Auth.CookieName)
	assert.Equal(t, 86400*7, cfg.Auth.SessionMaxAge)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.TLS)
}

func TestFlagOverrides(t *testing.T) {
	cfg := parse(t,
		"--port", "9090",
		"--log-level", "debug",
		"--database-dsn", ":memory:",
		"--bcrypt-cost", "4",
	)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("BEARER_SECRET", "env-secret")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := parse(t)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Auth.BearerSecret)
	assert.True(t, cfg.Auth.CookieSecure)
}

func TestBaseURLDefaultsFromHostPort(t *testing.T) {
	cfg := parse(t, "--host", "0.0.0.0", "--port", "9000")

	assert.Equal(t, "http://0.0.0.0:9000", cfg.Server.BaseURL)
}

func TestBaseURLExplicit(t *testing.T) {
	cfg := parse(t, "--base-url", "https://statlight.example.com")

	assert.Equal(t, "https://statlight.example.com", cfg.Server.BaseURL)
}
