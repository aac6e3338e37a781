package catalog

import (
	"strings"

	"github.com/iliyamo/movie-console/internal/model"
)

// Filter returns the movies whose name contains query, ignoring case, in
// their original order.  An empty query returns movies itself.  The input
// slice is never modified.
func Filter(movies []model.Movie, query string) []model.Movie {
	if query == "" {
		return movies
	}
	q := strings.ToLower(query)
	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}
