// Package handler contains the console's views.  Each view renders an
// embedded page; per-view state travels in the request, and outcome
// messages go through the notify package.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/catalog"
	"github.com/iliyamo/movie-console/internal/model"
)

// CatalogHandler serves the home view and its JSON twin.
type CatalogHandler struct {
	Catalog *catalog.Service
	Log     logrus.FieldLogger
}

func NewCatalogHandler(cat *catalog.Service, log logrus.FieldLogger) *CatalogHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CatalogHandler{Catalog: cat, Log: log}
}

type homeData struct {
	Query  string
	Movies []model.Movie
	Error  string
}

// Home lists the catalog filtered by ?q=.  A failed load shows the error
// in place of the list.
func (h *CatalogHandler) Home(c echo.Context) error {
	q := c.QueryParam("q")
	movies, err := h.Catalog.Get(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Warn("home: catalog load failed")
		return render(c, http.StatusOK, PageHome, "Home", homeData{Query: q, Error: errorText(err)})
	}
	return render(c, http.StatusOK, PageHome, "Home", homeData{Query: q, Movies: catalog.Filter(movies, q)})
}

// List is GET /api/movies?q=.
func (h *CatalogHandler) List(c echo.Context) error {
	movies, err := h.Catalog.Get(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Warn("api: catalog load failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": errorText(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": catalog.Filter(movies, c.QueryParam("q"))})
}
