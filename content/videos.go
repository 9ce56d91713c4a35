package content

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const defaultVideosBaseURL = "https://api.dailymotion.com"

const videoFields = "id,title,description,thumbnail_url,duration,views_total,created_time"

// Videos fetches records from the video platform. The platform needs no API
// key for read access, so the client carries none.
type Videos struct {
	httpAPI
}

type VideosOption func(*Videos)

func WithVideosBaseURL(baseURL string) VideosOption {
	return func(v *Videos) {
		if baseURL != "" {
			v.baseURL = baseURL
		}
	}
}

func WithVideosHTTPClient(client *http.Client) VideosOption {
	return func(v *Videos) {
		if client != nil {
			v.client = client
		}
	}
}

func NewVideos(opts ...VideosOption) *Videos {
	v := &Videos{
		httpAPI: newHTTPAPI(defaultVideosBaseURL, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

type videoList struct {
	List []Video `json:"list"`
}

// Search returns videos matching the query, by relevance. Upstream failures
// come back as an empty slice.
func (v *Videos) Search(ctx context.Context, query string, maxResults int) []Video {
	params := v.listParams(maxResults)
	params.Set("search", query)
	params.Set("sort", "relevance")

	return v.list(ctx, params)
}

// Popular returns the platform's featured videos by trending rank.
func (v *Videos) Popular(ctx context.Context, maxResults int) []Video {
	params := v.listParams(maxResults)
	params.Set("flags", "featured")
	params.Set("sort", "trending")

	return v.list(ctx, params)
}

// Cartoons returns kids/animation content, the feed behind the cartoons page.
func (v *Videos) Cartoons(ctx context.Context, maxResults int) []Video {
	params := v.listParams(maxResults)
	params.Set("search", "cartoon OR animation OR kids OR children OR disney OR pixar")
	params.Set("sort", "relevance")

	return v.list(ctx, params)
}

// Details fetches a single video record.
func (v *Videos) Details(ctx context.Context, videoID string) (*Video, error) {
	params := url.Values{}
	params.Set("fields", videoFields)

	var video Video
	if err := v.getJSON(ctx, "/video/"+url.PathEscape(videoID), params, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (v *Videos) listParams(maxResults int) url.Values {
	if maxResults <= 0 {
		maxResults = 12
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", videoFields)
	return params
}

func (v *Videos) list(ctx context.Context, params url.Values) []Video {
	var res videoList
	if err := v.getJSON(ctx, "/videos", params, &res); err != nil {
		return []Video{}
	}
	return res.List
}
