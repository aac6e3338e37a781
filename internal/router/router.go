// Package router registers the console's routes and the middleware each
// group runs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/handler"
	"github.com/iliyamo/movie-console/internal/middleware"
)

// RegisterRoutes registers routes that need no session.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers login, signup and logout.  The guest pages send
// visitors that already have a session home; form posts are rate limited.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	guest := middleware.RequireGuest()
	e.GET("/login", a.LoginForm, guest)
	e.POST("/login", a.Login, guest, limit)
	e.GET("/signup", a.SignupForm, guest)
	e.POST("/signup", a.Signup, guest, limit)

	e.POST("/logout", a.Logout)
}

// RegisterCatalog registers the home view and the JSON listing.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler) {
	auth := middleware.RequireSession()
	e.GET("/", h.Home, auth)
	e.GET("/api/movies", h.List, auth)
}

// RegisterMovies registers the creator, editor and deleter views.  Every
// post reaches the movie API, so posts are rate limited.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, limit echo.MiddlewareFunc) {
	auth := middleware.RequireSession()
	e.GET("/addMovies", h.AddForm, auth)
	e.POST("/addMovies", h.Add, auth, limit)
	e.GET("/editMovies", h.EditList, auth)
	e.POST("/editMovies/:name", h.Edit, auth, limit)
	e.GET("/deleteMovies", h.DeleteList, auth)
	e.POST("/deleteMovies/:name", h.Delete, auth, limit)
}
