package handler

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-console/internal/model"
)

// maxCoverBytes caps uploaded cover images.
const maxCoverBytes = 10 << 20

// numberField parses a numeric form field leniently: blank or unparsable
// input is 0, and validation decides what that means.
func numberField(c echo.Context, name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue(name)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func intField(c echo.Context, name string) int {
	return int(numberField(c, name))
}

func newMovieDraft(c echo.Context) model.NewMovieDraft {
	return model.NewMovieDraft{
		Name:        c.FormValue("name"),
		Director:    c.FormValue("director"),
		Rating:      numberField(c, "rating"),
		Description: c.FormValue("description"),
		ReleaseDate: c.FormValue("releaseDate"),
		Duration:    intField(c, "duration"),
	}
}

func editDraft(c echo.Context) model.EditDraft {
	return model.EditDraft{
		Director:    c.FormValue("director"),
		Rating:      numberField(c, "rating"),
		Description: c.FormValue("description"),
		Duration:    intField(c, "duration"),
	}
}

// coverImage returns the uploaded file, or the image retained from a
// previous submit, or nil.
func coverImage(c echo.Context) (*model.CoverImage, error) {
	if fh, err := c.FormFile("coverImage"); err == nil && fh.Size > 0 {
		if fh.Size > maxCoverBytes {
			return nil, fmt.Errorf("cover image too large: %d bytes", fh.Size)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open cover image: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxCoverBytes))
		if err != nil {
			return nil, fmt.Errorf("read cover image: %w", err)
		}
		return &model.CoverImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Data:        data,
		}, nil
	}
	if raw := c.FormValue("coverImageData"); raw != "" {
		return model.ParseDataURL(raw, c.FormValue("coverImageName"))
	}
	return nil, nil
}
