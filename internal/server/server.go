// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

// Package server wires the authentication service together and runs it.
package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/statlight/statlight-auth/internal/config"
	"github.com/statlight/statlight-auth/internal/database"
	"github.com/statlight/statlight-auth/internal/handlers"
	"github.com/statlight/statlight-auth/internal/i18n"
	"github.com/statlight/statlight-auth/internal/middleware"
	"github.com/statlight/statlight-auth/internal/repository"
	"github.com/statlight/statlight-auth/internal/services/email"
	"github.com/statlight/statlight-auth/internal/services/identity"
	"github.com/statlight/statlight-auth/internal/services/oauth"
	"github.com/statlight/statlight-auth/internal/services/password"
	"github.com/statlight/statlight-auth/internal/services/session"
	"github.com/statlight/statlight-auth/internal/services/token"
	"github.com/statlight/statlight-auth/internal/services/verification"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	if cfg.Auth.BearerSecret == "" {
		return fmt.Errorf("bearer-secret is required")
	}
	hashKey, err := hex.DecodeString(cfg.Auth.HashKey)
	if err != nil || len(hashKey) == 0 {
		return fmt.Errorf("session-hash-key must be a non-empty hex string")
	}
	var blockKey []byte
	if cfg.Auth.BlockKey != "" {
		blockKey, err = hex.DecodeString(cfg.Auth.BlockKey)
		if err != nil {
			return fmt.Errorf("session-block-key must be a hex string")
		}
	}

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository and services
	repo := repository.New(db)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := token.NewService([]byte(cfg.Auth.BearerSecret), cfg.Server.BaseURL, time.Duration(cfg.Auth.BearerTTLHours)*time.Hour)
	verifTokens := verification.NewManager(repo)

	notifier, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create email service: %w", err)
	}

	identitySvc := identity.NewService(repo, hasher, verifTokens, notifier)

	verifier, err := oauth.NewVerifier(ctx, cfg.OAuth.GoogleClientID, cfg.OAuth.AppleClientID)
	if err != nil {
		return fmt.Errorf("failed to set up oauth verifier: %w", err)
	}

	sessions := session.NewAggregator(hashKey, blockKey, tokens, repo,
		cfg.Auth.CookieName, cfg.Auth.SessionMaxAge, cfg.Auth.CookieSecure)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg, sessions)
	setupRoutes(e, handlers.New(identitySvc, sessions, verifier))

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)

	a := e.Group("/auth")
	a.POST("/register", h.Register)
	a.POST("/signin", h.SignIn)
	a.POST("/oauth/:provider", h.OAuthCallback)
	a.GET("/session", h.Session)
	a.POST("/logout", h.Logout)
	a.POST("/forgot-password", h.ForgotPassword)
	a.POST("/reset-password", h.ResetPassword)
	a.GET("/verify-email", h.VerifyEmail)
	a.GET("/me", h.Me, middleware.RequireAuth)

	e.POST("/early-access", h.EarlyAccess)

	admin := e.Group("/admin", middleware.RequireAdmin)
	admin.GET("/early-access", h.EarlyAccessList)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
