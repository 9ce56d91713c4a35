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

const newsFixture = `{
	"status": "ok",
	"articles": [
		{
			"source": {"name": "Style Daily"},
			"title": "Runway season opens",
			"description": "Highlights from the spring shows",
			"url": "https://news.example/runway",
			"urlToImage": "https://news.example/runway.jpg",
			"publishedAt": "2025-06-01T10:00:00Z"
		}
	]
}`

func TestNewsTopHeadlinesKnownCategory(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"apiKey":   r.URL.Query().Get("apiKey"),
			"q":        r.URL.Query().Get("q"),
			"sortBy":   r.URL.Query().Get("sortBy"),
			"language": r.URL.Query().Get("language"),
			"pageSize": r.URL.Query().Get("pageSize"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(newsFixture))
	}))
	defer backend.Close()

	news := content.NewNews("news-key", content.WithNewsBaseURL(backend.URL))

	articles := news.TopHeadlines(context.Background(), "Fashion", 10)
	require.Len(t, articles, 1)

	// A known blog category uses keyword search, not the headline feed.
	assert.Equal(t, "/everything", gotPath)
	assert.Equal(t, "news-key", gotQuery["apiKey"])
	assert.Contains(t, gotQuery["q"], "fashion OR style")
	assert.Equal(t, "publishedAt", gotQuery["sortBy"])
	assert.Equal(t, "en", gotQuery["language"])
	assert.Equal(t, "10", gotQuery["pageSize"])

	assert.Equal(t, "Runway season opens", articles[0].Title)
	assert.Equal(t, "Style Daily", articles[0].Source)
	assert.Equal(t, "https://news.example/runway.jpg", articles[0].ImageURL)
}

func TestNewsTopHeadlinesFallbackCategory(t *testing.T) {
	var gotPath string
	var gotCategory, gotCountry string

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCategory = r.URL.Query().Get("category")
		gotCountry = r.URL.Query().Get("country")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(newsFixture))
	}))
	defer backend.Close()

	news := content.NewNews("news-key", content.WithNewsBaseURL(backend.URL))

	articles := news.TopHeadlines(context.Background(), "technology", 0)
	require.Len(t, articles, 1)
	assert.Equal(t, "/top-headlines", gotPath)
	assert.Equal(t, "technology", gotCategory)
	assert.Equal(t, "us", gotCountry)
}

func TestNewsSearch(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "street style", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(newsFixture))
	}))
	defer backend.Close()

	news := content.NewNews("news-key", content.WithNewsBaseURL(backend.URL))

	articles := news.Search(context.Background(), "street style", 5)
	assert.Len(t, articles, 1)
}

func TestNewsFailuresReadAsEmpty(t *testing.T) {
	t.Run("upstream error status", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"status": "error"})
		}))
		defer backend.Close()

		news := content.NewNews("news-key", content.WithNewsBaseURL(backend.URL))
		assert.Empty(t, news.TopHeadlines(context.Background(), "fashion", 10))
	})

	t.Run("unreachable service", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		backend.Close()

		news := content.NewNews("news-key", content.WithNewsBaseURL(backend.URL))
		assert.Empty(t, news.Search(context.Background(), "anything", 10))
	})
}
