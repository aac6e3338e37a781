package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/session"
)

// Context keys set by ExposeIdentity.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// ExposeIdentity copies the caller's user id and role into the context so
// request logging can report them.  It grants nothing: whether the admin
// navigation is shown is decided by the templates from the same role, and
// the movie API enforces its own permissions.
func ExposeIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserIDKey, userID(c))
			c.Set(RoleKey, session.From(c).Role())
			return next(c)
		}
	}
}
