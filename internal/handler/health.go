package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/catalog"
)

// HealthHandler reports liveness for load balancers.
type HealthHandler struct {
	Catalog *catalog.Service
}

func NewHealthHandler(cat *catalog.Service) *HealthHandler {
	return &HealthHandler{Catalog: cat}
}

// Health always answers 200; "catalog" tells whether a catalog is held in
// memory, which is informational only.
func (h *HealthHandler) Health(c echo.Context) error {
	state := "empty"
	if h.Catalog != nil && h.Catalog.Loaded() {
		state = "loaded"
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "catalog": state})
}
