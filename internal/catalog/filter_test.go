package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-console/internal/model"
)

func sample() []model.Movie {
	return []model.Movie{
		{ID: "1", Name: "Dune", Rating: 8.5},
		{ID: "2", Name: "Arrival", Rating: 7.9},
		{ID: "3", Name: "Dune Part Two", Rating: 8.8},
		{ID: "4", Name: "Blade Runner 2049", Rating: 8.0},
	}
}

func TestFilterScenario(t *testing.T) {
	movies := []model.Movie{{Name: "Dune", Rating: 8.5}, {Name: "Dune Part Two", Rating: 8.8}}
	got := Filter(movies, "dune")
	assert.Equal(t, movies, got)
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	movies := sample()
	got := Filter(movies, "")
	assert.Equal(t, movies, got)
	// same backing array, not a copy
	assert.Same(t, &movies[0], &got[0])
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	movies := sample()
	for _, q := range []string{"DUNE", "dUnE", "une", "part two", "2049", "zzz", " "} {
		got := Filter(movies, q)
		var want []model.Movie
		for _, m := range movies {
			if containsFold(m.Name, q) {
				want = append(want, m)
			}
		}
		assert.Len(t, got, len(want), "query %q", q)
		for i := range want {
			assert.Equal(t, want[i], got[i], "query %q", q)
		}
	}
}

func TestFilterIdempotentAndPure(t *testing.T) {
	movies := sample()
	before := append([]model.Movie(nil), movies...)

	once := Filter(movies, "dune")
	twice := Filter(once, "dune")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"Dune", "Dune Part Two"}, names(once))
	assert.Equal(t, before, movies)
}

func containsFold(name, q string) bool {
	return len(Filter([]model.Movie{{Name: name}}, q)) == 1
}

func names(movies []model.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Name)
	}
	return out
}
