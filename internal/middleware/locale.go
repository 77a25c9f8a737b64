// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/statlight/statlight-auth/internal/i18n"
)

// Locale detects the preferred language from the Accept-Language header and
// sets it in the request context, so outbound email picks the right catalog.
func Locale(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang := i18n.MatchLanguage(c.Request().Header.Get("Accept-Language"))
		ctx := i18n.WithLocale(c.Request().Context(), lang)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
