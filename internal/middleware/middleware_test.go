package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-console/internal/config"
	"github.com/iliyamo/movie-console/internal/notify"
	"github.com/iliyamo/movie-console/internal/session"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func withSession(s *session.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(session.ContextKey, s)
			return next(c)
		}
	}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   "u42",
		"userType": "Admin",
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	e := echo.New()
	e.Use(withSession(session.Anonymous()))
	e.GET("/", ok, RequireSession())
	e.GET("/api/movies", ok, RequireSession())

	rec := serve(e, http.MethodGet, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = serve(e, http.MethodGet, "/api/movies")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionPassesAuthenticated(t *testing.T) {
	e := echo.New()
	e.Use(withSession(session.New("sid", "any-token")))
	e.GET("/", ok, RequireSession())

	rec := serve(e, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireGuest(t *testing.T) {
	e := echo.New()
	e.Use(withSession(session.New("sid", "any-token")))
	e.GET("/login", ok, RequireGuest())

	rec := serve(e, http.MethodGet, "/login")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	e2 := echo.New()
	e2.Use(withSession(session.Anonymous()))
	e2.GET("/login", ok, RequireGuest())
	assert.Equal(t, http.StatusOK, serve(e2, http.MethodGet, "/login").Code)
}

func TestExposeIdentity(t *testing.T) {
	e := echo.New()
	e.Use(withSession(session.New("sid", adminToken(t))))
	var uid, role interface{}
	e.GET("/", func(c echo.Context) error {
		uid, role = c.Get(UserIDKey), c.Get(RoleKey)
		return nil
	}, ExposeIdentity())

	serve(e, http.MethodGet, "/")
	assert.Equal(t, "u42", uid)
	assert.Equal(t, "Admin", role)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/addMovies", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/addMovies")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /addMovies", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:sid:anon:route:POST /addMovies", buildRateKey(cfg, c))

	c.Set(session.ContextKey, session.New("cookie-value", "tok"))
	key := buildRateKey(cfg, c)
	assert.NotContains(t, key, "cookie-value")
	assert.Len(t, sessionKey(c), 16)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	e.POST("/addMovies", ok, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/addMovies").Code)
}

func TestRefuseFormPostRedirectsBack(t *testing.T) {
	e := echo.New()
	e.Use(notify.Load())
	e.POST("/editMovies/:name", refuse)
	e.GET("/api/movies", refuse)

	rec := serve(e, http.MethodPost, "/editMovies/Dune")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/editMovies", rec.Header().Get(echo.HeaderLocation))
	var flash bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == notify.CookieName && ck.Value != "" {
			flash = true
		}
	}
	assert.True(t, flash)

	rec = serve(e, http.MethodGet, "/api/movies")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
