package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/moviesapi"
	"github.com/iliyamo/movie-console/internal/notify"
	"github.com/iliyamo/movie-console/internal/session"
)

// Outcome messages of the auth views.
const (
	MsgLoggedIn           = "Log-in Successfull"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgLoginFailed        = "Error logging in"
	MsgSignupFailed       = "Error signing up"
	MsgLoggedOut          = "Logged out successfull"
)

// AuthAPI is the part of the movie API that handles accounts.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, name, email, password string) error
}

// AuthHandler bundles dependencies for the login, signup and logout views.
type AuthHandler struct {
	API      AuthAPI
	Sessions *session.Manager
	Log      logrus.FieldLogger
	validate *validator.Validate
}

func NewAuthHandler(api AuthAPI, sessions *session.Manager, log logrus.FieldLogger) *AuthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthHandler{API: api, Sessions: sessions, Log: log, validate: validator.New()}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type signupReq struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type authData struct {
	Name  string
	Email string
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, PageLogin, "Sign in", authData{})
}

// Login exchanges credentials for a token and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		notify.Error(c, MsgInvalidCredentials)
		return render(c, http.StatusBadRequest, PageLogin, "Sign in", authData{})
	}
	req.Email = strings.TrimSpace(req.Email)
	data := authData{Email: req.Email}
	if err := h.validate.Struct(req); err != nil {
		notify.Error(c, MsgInvalidCredentials)
		return render(c, http.StatusUnprocessableEntity, PageLogin, "Sign in", data)
	}

	token, err := h.API.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.Log.WithError(err).Warn("auth: login failed")
		if errors.Is(err, moviesapi.ErrTransport) {
			notify.Error(c, MsgLoginFailed)
		} else {
			notify.Error(c, MsgInvalidCredentials)
		}
		return render(c, http.StatusOK, PageLogin, "Sign in", data)
	}
	if err := h.Sessions.Login(c, token); err != nil {
		h.Log.WithError(err).Error("auth: session not stored")
		notify.Error(c, MsgLoginFailed)
		return render(c, http.StatusOK, PageLogin, "Sign in", data)
	}
	notify.Success(c, MsgLoggedIn)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return render(c, http.StatusOK, PageSignup, "Sign up", authData{})
}

// Signup registers an account and sends the visitor to the login page.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		notify.Error(c, MsgSignupFailed)
		return render(c, http.StatusBadRequest, PageSignup, "Sign up", authData{})
	}
	req.Name, req.Email = strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
	data := authData{Name: req.Name, Email: req.Email}
	if err := h.validate.Struct(req); err != nil {
		notify.Error(c, MsgSignupFailed)
		return render(c, http.StatusUnprocessableEntity, PageSignup, "Sign up", data)
	}
	if err := h.API.Signup(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		h.Log.WithError(err).Warn("auth: signup failed")
		notify.Error(c, MsgSignupFailed)
		return render(c, http.StatusOK, PageSignup, "Sign up", data)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout ends the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		h.Log.WithError(err).Warn("auth: session delete failed")
	}
	notify.Success(c, MsgLoggedOut)
	return c.Redirect(http.StatusSeeOther, "/login")
}
