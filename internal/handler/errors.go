package handler

import (
	"errors"

	"github.com/iliyamo/movie-console/internal/moviesapi"
)

// errorText is the message shown inline when the catalog cannot be loaded.
func errorText(err error) string {
	var se *moviesapi.StatusError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, moviesapi.ErrTransport):
		return "Failed to fetch"
	case err != nil:
		return err.Error()
	}
	return ""
}
