package model

import (
	"strings"
)

// PlaceholderCover is used when a record carries no cover path.
const PlaceholderCover = "api/placeholder/300/450"

// Movie represents a record as returned by the movie API.  The API keys
// updates and deletes by Name, not by ID, so two records sharing a name
// are indistinguishable to every mutation.
//
// Fields:
//
//	ID          – server-assigned identifier (_id).
//	Name        – title; the key used in update/delete URLs.
//	Director    – director name.
//	Rating      – free-form score, displayed with a "/10" suffix.
//	Description – free text.
//	ReleaseDate – date-only string (YYYY-MM-DD).
//	Duration    – running time in minutes.
//	CoverImage  – server-relative path of the cover image.
type Movie struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Director    string  `json:"director"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate"`
	Duration    int     `json:"duration"`
	CoverImage  string  `json:"coverImage"`
}

// CoverURL resolves the cover path against base.  An empty path resolves
// to the placeholder image.
func (m Movie) CoverURL(base string) string {
	p := m.CoverImage
	if p == "" {
		p = PlaceholderCover
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(p, "/")
}
