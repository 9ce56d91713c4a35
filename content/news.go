package content

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultNewsBaseURL = "https://newsapi.org/v2"

// categoryConfigs maps blog categories to keyword queries against the
// everything endpoint; categories outside this map fall back to the
// top-headlines endpoint.
var categoryConfigs = map[string]string{
	"fashion":   "fashion OR style OR clothing OR designer OR runway OR couture",
	"luxury":    "luxury brands OR designer fashion OR high fashion OR couture OR luxury lifestyle OR luxury cars OR luxury watches OR premium fashion",
	"lifestyle": "lifestyle OR wellness OR home OR family OR daily life OR productivity OR self-care",
	"beauty":    "beauty OR skincare OR makeup OR cosmetics OR wellness OR spa OR grooming",
	"travel":    "travel OR vacation OR tourism OR destination OR adventure OR holiday OR trip",
	"events":    "events OR entertainment OR concert OR festival OR show OR party OR celebration",
	"sports":    "sports OR football OR basketball OR soccer OR tennis OR athletics OR championship",
}

// News fetches categorized headlines from the news aggregation service.
type News struct {
	httpAPI
	apiKey string
}

type NewsOption func(*News)

func WithNewsBaseURL(baseURL string) NewsOption {
	return func(n *News) {
		if baseURL != "" {
			n.baseURL = baseURL
		}
	}
}

func WithNewsHTTPClient(client *http.Client) NewsOption {
	return func(n *News) {
		if client != nil {
			n.client = client
		}
	}
}

func NewNews(apiKey string, opts ...NewsOption) *News {
	n := &News{
		httpAPI: newHTTPAPI(defaultNewsBaseURL, nil),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

type newsResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// TopHeadlines returns headlines for one blog category. Known categories use
// keyword search sorted by publish date; anything else falls back to the
// country top-headlines feed. Upstream failures come back as an empty slice.
func (n *News) TopHeadlines(ctx context.Context, category string, pageSize int) []Article {
	if pageSize <= 0 {
		pageSize = 20
	}

	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("pageSize", strconv.Itoa(pageSize))

	path := "/top-headlines"
	if query, ok := categoryConfigs[strings.ToLower(category)]; ok {
		path = "/everything"
		params.Set("q", query)
		params.Set("sortBy", "publishedAt")
		params.Set("language", "en")
	} else {
		params.Set("category", category)
		params.Set("country", "us")
	}

	var res newsResponse
	if err := n.getJSON(ctx, path, params, &res); err != nil {
		return []Article{}
	}

	return res.articles()
}

// Search runs a free-text query against the everything endpoint.
func (n *News) Search(ctx context.Context, query string, pageSize int) []Article {
	if pageSize <= 0 {
		pageSize = 20
	}

	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")

	var res newsResponse
	if err := n.getJSON(ctx, "/everything", params, &res); err != nil {
		return []Article{}
	}

	return res.articles()
}

func (r newsResponse) articles() []Article {
	out := make([]Article, 0, len(r.Articles))
	for _, a := range r.Articles {
		out = append(out, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return out
}
