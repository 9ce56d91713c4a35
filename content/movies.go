package content

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-errors"
)

const defaultMoviesBaseURL = "https://www.omdbapi.com"

// popularTitles seeds the popular-movies shelf; the lookup service has no
// real popularity endpoint.
var popularTitles = []string{
	"The Shawshank Redemption",
	"The Godfather",
	"The Dark Knight",
	"Pulp Fiction",
	"Forrest Gump",
}

// Movies looks up movie records from the movie-database service.
type Movies struct {
	httpAPI
	apiKey string
}

type MoviesOption func(*Movies)

func WithMoviesBaseURL(baseURL string) MoviesOption {
	return func(m *Movies) {
		if baseURL != "" {
			m.baseURL = baseURL
		}
	}
}

func WithMoviesHTTPClient(client *http.Client) MoviesOption {
	return func(m *Movies) {
		if client != nil {
			m.client = client
		}
	}
}

func NewMovies(apiKey string, opts ...MoviesOption) *Movies {
	m := &Movies{
		httpAPI: newHTTPAPI(defaultMoviesBaseURL, nil),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

type movieResponse struct {
	Movie
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Popular looks up a fixed set of well-known titles, skipping any that fail.
func (m *Movies) Popular(ctx context.Context) []Movie {
	out := make([]Movie, 0, len(popularTitles))
	for _, title := range popularTitles {
		movie, err := m.ByTitle(ctx, title)
		if err != nil {
			continue
		}
		out = append(out, *movie)
	}
	return out
}

// ByTitle fetches a single movie record by exact title.
func (m *Movies) ByTitle(ctx context.Context, title string) (*Movie, error) {
	params := url.Values{}
	params.Set("apikey", m.apiKey)
	params.Set("t", title)
	params.Set("type", "movie")

	var res movieResponse
	if err := m.getJSON(ctx, "/", params, &res); err != nil {
		return nil, err
	}
	if res.Response != "True" {
		return nil, movieLookupError(res.Error)
	}

	return &res.Movie, nil
}

// Search runs a title search. Upstream failures come back as an empty slice.
func (m *Movies) Search(ctx context.Context, query string) []Movie {
	params := url.Values{}
	params.Set("apikey", m.apiKey)
	params.Set("s", query)
	params.Set("type", "movie")

	var res struct {
		Search   []Movie `json:"Search"`
		Response string  `json:"Response"`
	}
	if err := m.getJSON(ctx, "/", params, &res); err != nil {
		return []Movie{}
	}
	if res.Response != "True" {
		return []Movie{}
	}

	return res.Search
}

func movieLookupError(msg string) error {
	if msg == "" {
		msg = "movie not found"
	}
	return errors.New(msg, errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}
