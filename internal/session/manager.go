package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/utils"
)

// ContextKey is where Load stores the *Session in the Echo context.
const ContextKey = "session"

// Options configures a Manager.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     logrus.FieldLogger
}

// Manager resolves, creates and destroys sessions.
type Manager struct {
	store     Store
	opts      Options
	listeners []func(c echo.Context, s *Session)
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "movie_session"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Manager{store: store, opts: opts}
}

// OnChange registers fn to run after every Login and Logout with the
// re-evaluated session.  Not safe to call once the server is running.
func (m *Manager) OnChange(fn func(c echo.Context, s *Session)) {
	m.listeners = append(m.listeners, fn)
}

// Load is the middleware that resolves the session of the request.  A
// missing cookie, an unknown id or a store failure all yield an anonymous
// session; store failures are logged.
func (m *Manager) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKey, m.resolve(c))
			return next(c)
		}
	}
}

func (m *Manager) resolve(c echo.Context) *Session {
	ck, err := c.Cookie(m.opts.CookieName)
	if err != nil || ck.Value == "" {
		return Anonymous()
	}
	tok, err := m.store.Get(c.Request().Context(), utils.HashSessionID(ck.Value))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.opts.Logger.WithError(err).Warn("session: store lookup failed")
		}
		return Anonymous()
	}
	return New(ck.Value, tok)
}

// From returns the session of the request, or an anonymous one when Load
// did not run.
func From(c echo.Context) *Session {
	if s, ok := c.Get(ContextKey).(*Session); ok && s != nil {
		return s
	}
	return Anonymous()
}

// Login persists token under a fresh session id, sets the cookie and
// replaces the session in the context.
func (m *Manager) Login(c echo.Context, token string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	// drop a previous session of this browser, if any
	if old := From(c); old.ID() != "" {
		_ = m.store.Delete(c.Request().Context(), utils.HashSessionID(old.ID()))
	}

	id := uuid.NewString()
	if err := m.store.Put(c.Request().Context(), utils.HashSessionID(id), token, m.opts.TTL); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		MaxAge:   int(m.opts.TTL / time.Second),
		Path:     "/",
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	m.reevaluate(c, New(id, token))
	return nil
}

// Logout deletes the stored session, expires the cookie and leaves an
// anonymous session in the context.
func (m *Manager) Logout(c echo.Context) error {
	var err error
	if cur := From(c); cur.ID() != "" {
		err = m.store.Delete(c.Request().Context(), utils.HashSessionID(cur.ID()))
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	m.reevaluate(c, Anonymous())
	return err
}

func (m *Manager) reevaluate(c echo.Context, s *Session) {
	c.Set(ContextKey, s)
	for _, fn := range m.listeners {
		fn(c, s)
	}
}
