// Package session holds the console's notion of "who is logged in".  A
// Session is resolved once per request from the session cookie and placed
// in the Echo context; handlers read it with From.
package session

import (
	"sync"

	"github.com/iliyamo/movie-console/internal/model"
	"github.com/iliyamo/movie-console/internal/utils"
)

// Session wraps the opaque token of the current user.  Presence of a
// non-empty token is all that "logged in" means; expiry is never checked.
type Session struct {
	id    string // raw cookie value; empty for anonymous sessions
	token string

	once   sync.Once
	claims model.TokenClaims
}

// New returns a session for the given cookie id and token.
func New(id, token string) *Session {
	return &Session{id: id, token: token}
}

// Anonymous returns a logged-out session.
func Anonymous() *Session { return &Session{} }

func (s *Session) ID() string    { return s.id }
func (s *Session) Token() string { return s.token }

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool { return s.token != "" }

// Claims decodes the token on first use.  A token that cannot be decoded
// yields zero claims; the error is intentionally dropped.
func (s *Session) Claims() model.TokenClaims {
	s.once.Do(func() {
		if c, err := utils.DecodeToken(s.token); err == nil {
			s.claims = c
		}
	})
	return s.claims
}

// Role is the userType claim, or "" when unknown.
func (s *Session) Role() string { return s.Claims().UserType }

// IsAdmin decides whether admin navigation is shown.  It authorizes nothing:
// the movie API enforces permissions itself.
func (s *Session) IsAdmin() bool { return s.Role() == model.AdminUserType }
