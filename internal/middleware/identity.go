package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/session"
	"github.com/iliyamo/movie-console/internal/utils"
)

// sessionKey identifies the caller for rate limiting.  The raw cookie value
// never leaves the process, so the hashed id is used.  Anonymous callers
// share "anon".
func sessionKey(c echo.Context) string {
	s := session.From(c)
	if s.ID() == "" {
		return "anon"
	}
	return utils.HashSessionID(s.ID())[:16]
}

// userID returns the userId claim of the caller, or "guest".
func userID(c echo.Context) string {
	if id := session.From(c).Claims().UserID; id != "" {
		return id
	}
	return "guest"
}
