package content_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylefeed/go-session/content"
)

func TestMoviesByTitle(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "omdb-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "movie", r.URL.Query().Get("type"))

		switch r.URL.Query().Get("t") {
		case "The Dark Knight":
			json.NewEncoder(w).Encode(map[string]string{
				"Response":   "True",
				"Title":      "The Dark Knight",
				"Year":       "2008",
				"Genre":      "Action, Crime, Drama",
				"Plot":       "Batman faces the Joker.",
				"Poster":     "https://movies.example/tdk.jpg",
				"imdbRating": "9.0",
			})
		default:
			json.NewEncoder(w).Encode(map[string]string{
				"Response": "False",
				"Error":    "Movie not found!",
			})
		}
	}))
	defer backend.Close()

	movies := content.NewMovies("omdb-key", content.WithMoviesBaseURL(backend.URL))

	t.Run("found", func(t *testing.T) {
		movie, err := movies.ByTitle(context.Background(), "The Dark Knight")
		require.NoError(t, err)
		assert.Equal(t, "The Dark Knight", movie.Title)
		assert.Equal(t, "2008", movie.Year)
		assert.Equal(t, "9.0", movie.IMDBRating)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := movies.ByTitle(context.Background(), "No Such Movie")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Movie not found!")
	})
}

func TestMoviesPopularSkipsFailures(t *testing.T) {
	var requested []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("t")
		requested = append(requested, title)

		if title == "Pulp Fiction" {
			json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Movie not found!"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"Response": "True", "Title": title})
	}))
	defer backend.Close()

	movies := content.NewMovies("omdb-key", content.WithMoviesBaseURL(backend.URL))

	popular := movies.Popular(context.Background())
	assert.Len(t, requested, 5)
	require.Len(t, popular, 4)
	for _, movie := range popular {
		assert.NotEqual(t, "Pulp Fiction", movie.Title)
	}
}

func TestMoviesSearch(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "godfather", r.URL.Query().Get("s"))
			json.NewEncoder(w).Encode(map[string]any{
				"Response": "True",
				"Search": []map[string]string{
					{"Title": "The Godfather", "Year": "1972"},
					{"Title": "The Godfather Part II", "Year": "1974"},
				},
			})
		}))
		defer backend.Close()

		movies := content.NewMovies("omdb-key", content.WithMoviesBaseURL(backend.URL))
		results := movies.Search(context.Background(), "godfather")
		require.Len(t, results, 2)
		assert.Equal(t, "The Godfather", results[0].Title)
	})

	t.Run("no matches read as empty", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Movie not found!"})
		}))
		defer backend.Close()

		movies := content.NewMovies("omdb-key", content.WithMoviesBaseURL(backend.URL))
		assert.Empty(t, movies.Search(context.Background(), "zzzz"))
	})

	t.Run("unreachable service reads as empty", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		backend.Close()

		movies := content.NewMovies("omdb-key", content.WithMoviesBaseURL(backend.URL))
		assert.Empty(t, movies.Search(context.Background(), "godfather"))
	})
}
