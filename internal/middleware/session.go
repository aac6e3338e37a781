// Package middleware holds the request guards and limiters placed in front
// of the console's handlers.  All of them expect session.Manager.Load to
// have run first.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// RequireSession sends anonymous visitors to the login page.  JSON routes
// get a 401 instead of a redirect.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session.From(c).Authenticated() {
				return next(c)
			}
			if wantsJSON(c) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return c.Redirect(http.StatusSeeOther, LoginPath)
		}
	}
}

// RequireGuest sends visitors that are already logged in to the home page.
func RequireGuest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session.From(c).Authenticated() {
				return c.Redirect(http.StatusSeeOther, HomePath)
			}
			return next(c)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
