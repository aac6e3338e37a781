package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/catalog"
	"github.com/iliyamo/movie-console/internal/model"
	"github.com/iliyamo/movie-console/internal/notify"
	"github.com/iliyamo/movie-console/internal/service"
	"github.com/iliyamo/movie-console/internal/session"
)

// Outcome messages of the movie views.
const (
	MsgMovieAdded   = "Movie added successfully!"
	MsgAddFailed    = "Error adding movie"
	MsgMovieUpdated = "Movie updated successfully!"
	MsgUpdateFailed = "Failed to update movie"
	MsgMovieDeleted = "Movie Deleted successfully!"
	MsgDeleteFailed = "Error deleting movie"

	MsgFieldsRequired  = "All fields are required!"
	MsgImageRequired   = "Cover image is required!"
	MsgInvalidDuration = "Duration must be a positive number!"
)

// MovieHandler serves the creator, editor and deleter views.
type MovieHandler struct {
	Movies  *service.MovieService
	Catalog *catalog.Service
	Log     logrus.FieldLogger
}

func NewMovieHandler(svc *service.MovieService, cat *catalog.Service, log logrus.FieldLogger) *MovieHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MovieHandler{Movies: svc, Catalog: cat, Log: log}
}

func actor(c echo.Context) service.Actor {
	s := session.From(c)
	return service.Actor{Token: s.Token(), UserID: s.Claims().UserID}
}

// nameParam returns the :name path segment.  Echo matches on the raw path
// only when the request carries escapes that Path cannot represent (such as
// %2F); only then is the segment still encoded.
func nameParam(c echo.Context) string {
	raw := c.Param("name")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if n, err := url.PathUnescape(raw); err == nil {
		return n
	}
	return raw
}

// ----- creator -----

type addData struct {
	Draft     model.NewMovieDraft
	Preview   template.URL
	ImageName string
}

func (h *MovieHandler) AddForm(c echo.Context) error {
	return render(c, http.StatusOK, PageAdd, "Add Movie", addData{})
}

// Add validates and submits a new movie.  The draft and the chosen image
// survive any failure; success starts over with an empty form.
func (h *MovieHandler) Add(c echo.Context) error {
	d := newMovieDraft(c)
	img, err := coverImage(c)
	if err != nil {
		h.Log.WithError(err).Warn("creator: unreadable cover image")
		img = nil
	}
	data := addData{Draft: d}
	if !img.Empty() {
		data.Preview = template.URL(img.DataURL())
		data.ImageName = img.Filename
	}

	err = h.Movies.Create(c.Request().Context(), actor(c), d, img)
	msg := validationMessage(err)
	switch {
	case err == nil:
		notify.Success(c, MsgMovieAdded)
		return c.Redirect(http.StatusSeeOther, "/addMovies")
	case msg != "":
		notify.Error(c, msg)
		return render(c, http.StatusUnprocessableEntity, PageAdd, "Add Movie", data)
	default:
		h.Log.WithError(err).WithField("movie", d.Name).Error("creator: add failed")
		notify.Error(c, MsgAddFailed)
		return render(c, http.StatusOK, PageAdd, "Add Movie", data)
	}
}

// validationMessage maps a draft validation failure to the text shown to
// the user, or "" when err is not one.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrFieldsRequired):
		return MsgFieldsRequired
	case errors.Is(err, model.ErrImageRequired):
		return MsgImageRequired
	case errors.Is(err, model.ErrInvalidDuration):
		return MsgInvalidDuration
	}
	return ""
}

// ----- editor and deleter -----

type listData struct {
	Movies []model.Movie
	Error  string
	Open   bool
	Name   string
	Draft  model.EditDraft
}

// list loads the catalog and, when name is set, opens the panel for the
// first movie with that name.
func (h *MovieHandler) list(c echo.Context, name string) listData {
	var data listData
	movies, err := h.Catalog.Get(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Warn("catalog load failed")
		data.Error = errorText(err)
		return data
	}
	data.Movies = movies
	if name == "" {
		return data
	}
	for _, m := range movies {
		if m.Name == name {
			data.Open, data.Name, data.Draft = true, m.Name, model.DraftOf(m)
			break
		}
	}
	return data
}

// EditList is GET /editMovies[?name=].
func (h *MovieHandler) EditList(c echo.Context) error {
	return render(c, http.StatusOK, PageEdit, "Update Movies", h.list(c, c.QueryParam("name")))
}

// Edit submits the edit panel of the movie named in the path.
func (h *MovieHandler) Edit(c echo.Context) error {
	name := nameParam(c)
	d := editDraft(c)
	if err := h.Movies.Update(c.Request().Context(), actor(c), name, d); err != nil {
		h.Log.WithError(err).WithField("movie", name).Error("editor: update failed")
		notify.Error(c, MsgUpdateFailed)
		data := h.list(c, "")
		data.Open, data.Name, data.Draft = true, name, d
		return render(c, http.StatusOK, PageEdit, "Update Movies", data)
	}
	notify.Success(c, MsgMovieUpdated)
	return c.Redirect(http.StatusSeeOther, "/editMovies")
}

// DeleteList is GET /deleteMovies[?name=].
func (h *MovieHandler) DeleteList(c echo.Context) error {
	return render(c, http.StatusOK, PageDelete, "Delete Movies", h.list(c, c.QueryParam("name")))
}

// Delete removes the movie named in the path.  On failure the list is
// shown unchanged with the confirmation still open.
func (h *MovieHandler) Delete(c echo.Context) error {
	name := nameParam(c)
	if err := h.Movies.Delete(c.Request().Context(), actor(c), name); err != nil {
		h.Log.WithError(err).WithField("movie", name).Error("deleter: delete failed")
		notify.Error(c, MsgDeleteFailed)
		data := h.list(c, "")
		data.Open, data.Name = true, name
		return render(c, http.StatusOK, PageDelete, "Delete Movies", data)
	}
	notify.Success(c, MsgMovieDeleted)
	return c.Redirect(http.StatusSeeOther, "/deleteMovies")
}
