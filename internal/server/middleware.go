// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package server

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/statlight/statlight-auth/internal/config"
	"github.com/statlight/statlight-auth/internal/middleware"
	"github.com/statlight/statlight-auth/internal/services/session"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config, sessions *session.Aggregator) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(middleware.Locale)
	e.Use(middleware.LoadSession(sessions))
}
