// Package notify is the console's notification sink: short, stacked
// messages reporting the outcome of an action.  Notices pushed during a
// request are shown by the page that request renders, or, when it
// redirects, by the next page, carried there in a cookie.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Level of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one message.
type Notice struct {
	Level Level  `json:"l"`
	Text  string `json:"t"`
}

const (
	// CookieName is the cookie carrying pending notices across a redirect.
	CookieName = "flash"
	contextKey = "notify.stack"
	// maxPending bounds the cookie size; older notices are dropped first.
	maxPending = 10
)

type stack struct {
	items []Notice
	dirty bool
}

// Load restores pending notices from the cookie and arranges for the
// cookie to be rewritten before the response headers go out.
func Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := &stack{}
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				st.items = decode(ck.Value)
				if st.items == nil {
					// unreadable cookie: drop it
					st.dirty = true
				}
			}
			c.Set(contextKey, st)
			c.Response().Before(func() { writeCookie(c, st) })
			return next(c)
		}
	}
}

// Push appends a notice to the request's stack.
func Push(c echo.Context, level Level, text string) {
	st := from(c)
	st.items = append(st.items, Notice{Level: level, Text: text})
	if len(st.items) > maxPending {
		st.items = st.items[len(st.items)-maxPending:]
	}
	st.dirty = true
}

// Success pushes a success notice.
func Success(c echo.Context, text string) { Push(c, LevelSuccess, text) }

// Error pushes an error notice.
func Error(c echo.Context, text string) { Push(c, LevelError, text) }

// Drain returns the pending notices, oldest first, and clears them.
func Drain(c echo.Context) []Notice {
	st := from(c)
	out := st.items
	if len(out) > 0 {
		st.items = nil
		st.dirty = true
	}
	return out
}

// Pending returns the notices without clearing them.
func Pending(c echo.Context) []Notice {
	return append([]Notice(nil), from(c).items...)
}

func from(c echo.Context) *stack {
	if st, ok := c.Get(contextKey).(*stack); ok {
		return st
	}
	// Load did not run (e.g. in a unit test): keep a request-local stack
	// that simply never reaches a cookie.
	st := &stack{}
	c.Set(contextKey, st)
	return st
}

func writeCookie(c echo.Context, st *stack) {
	if !st.dirty {
		return
	}
	ck := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(st.items) == 0 {
		ck.MaxAge = -1
	} else {
		ck.Value = encode(st.items)
	}
	c.SetCookie(ck)
}

func encode(items []Notice) string {
	bs, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bs)
}

func decode(raw string) []Notice {
	bs, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var items []Notice
	if err := json.Unmarshal(bs, &items); err != nil {
		return nil
	}
	return items
}
