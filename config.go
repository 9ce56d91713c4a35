package session

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/joho/godotenv"
)

// Config holds the environment-supplied settings: the backend base URL, the
// content API keys, and where the session snapshot lives. API keys are
// collaborator inputs, not part of the session contract.
type Config struct {
	BaseURL      string
	ListenAddr   string
	SnapshotPath string
	RedisAddr    string
	NewsAPIKey   string
	MoviesAPIKey string
	// OfflineAuth enables the demo credential fallback. Leave it off in
	// production.
	OfflineAuth bool
}

const (
	defaultBaseURL    = "http://localhost:3001/api"
	defaultListenAddr = ":8080"
)

// LoadConfig reads configuration from STYLEFEED_* environment variables,
// loading a .env file first when one exists.
func LoadConfig() (Config, error) {
	// Missing .env is fine; real env vars win either way.
	godotenv.Load()

	cfg := Config{
		BaseURL:      os.Getenv("STYLEFEED_API_BASE_URL"),
		ListenAddr:   os.Getenv("STYLEFEED_LISTEN_ADDR"),
		SnapshotPath: os.Getenv("STYLEFEED_SNAPSHOT_PATH"),
		RedisAddr:    os.Getenv("STYLEFEED_REDIS_ADDR"),
		NewsAPIKey:   os.Getenv("STYLEFEED_NEWS_API_KEY"),
		MoviesAPIKey: os.Getenv("STYLEFEED_OMDB_API_KEY"),
		OfflineAuth:  os.Getenv("STYLEFEED_OFFLINE_AUTH") == "true",
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.ListenAddr, validation.Required),
	)
}
