// Package content holds the feed clients for the third-party services the
// blog aggregates: a news-headline service, a movie lookup service, and a
// video platform. The clients are collaborators of the session layer, not
// part of it: each returns loosely typed records and swallows upstream
// failures into empty result sets so a dead feed never breaks a page.
package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-errors"
)

const defaultTimeout = 10 * time.Second

// Article is a news record, trimmed to the fields the pages consume.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Movie is a movie-lookup record.
type Movie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
}

// Video is a video-platform record.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	Views        int64  `json:"views_total"`
	CreatedTime  int64  `json:"created_time"`
}

// Published returns the video creation time.
func (v Video) Published() time.Time {
	return time.Unix(v.CreatedTime, 0)
}

type httpAPI struct {
	baseURL string
	client  *http.Client
}

func newHTTPAPI(baseURL string, client *http.Client) httpAPI {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return httpAPI{baseURL: baseURL, client: client}
}

func (a httpAPI) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := a.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := a.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "feed request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return errors.New("feed request failed", errors.CategoryOperation).
			WithCode(res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
