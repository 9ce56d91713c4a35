// Command stylefeed runs a small feed gateway in front of the blog backend:
// it authenticates through the session Manager and serves the aggregated
// news, movie, and video feeds behind the route guard.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	session "github.com/stylefeed/go-session"
	"github.com/stylefeed/go-session/content"
	"github.com/stylefeed/go-session/middleware/guard"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := session.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := session.NewZerologger(log)
	store := buildStore(cfg)

	var opts []session.ClientOption
	opts = append(opts, session.WithClientLogger(logger))
	if cfg.OfflineAuth {
		log.Warn().Msg("offline demo authentication is enabled")
		opts = append(opts, session.WithOfflineProvider(session.NewDemoProvider()))
	}

	manager := wireManager(cfg, store, logger, opts)
	manager.Initialize(context.Background())

	app := buildApp(cfg, manager, logger)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func buildStore(cfg session.Config) session.Store {
	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(client, "stylefeed:session")
	case cfg.SnapshotPath != "":
		return session.NewFileStore(cfg.SnapshotPath)
	default:
		return session.NewMemoryStore()
	}
}

func wireManager(cfg session.Config, store session.Store, logger session.Logger, opts []session.ClientOption) *session.Manager {
	var manager *session.Manager

	opts = append(opts, session.WithForcedLogoutHandler(func() {
		if manager != nil {
			manager.HandleForcedLogout()
		}
	}))

	sink := session.ActivitySinkFunc(func(ctx context.Context, event session.ActivityEvent) error {
		logger.Info("auth activity: %s", event.EventType)
		return nil
	})

	client := session.NewClient(cfg.BaseURL, store, opts...)
	manager = session.NewManager(store, client,
		session.WithManagerLogger(logger),
		session.WithManagerActivitySink(sink),
	)
	return manager
}

func buildApp(cfg session.Config, manager *session.Manager, logger session.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	news := content.NewNews(cfg.NewsAPIKey)
	movies := content.NewMovies(cfg.MoviesAPIKey)
	videos := content.NewVideos()

	guardCfg := guard.Config{
		IsAuthenticated: func(*fiber.Ctx) bool { return manager.IsAuthenticated() },
	}

	app.Post("/login", func(c *fiber.Ctx) error {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&payload); err != nil {
			return fiber.ErrBadRequest
		}

		form := loginForm(payload.Email, payload.Password)
		if !form.Validate() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": form.Errors()})
		}

		if err := manager.Login(c.Context(), payload.Email, payload.Password); err != nil {
			return c.Status(authStatus(err)).JSON(fiber.Map{"error": manager.CurrentState().Error})
		}

		return c.JSON(fiber.Map{
			"user":     manager.CurrentState().User,
			"redirect": guard.ConsumeRedirect(c, guardCfg, "/"),
		})
	})

	app.Post("/register", func(c *fiber.Ctx) error {
		var payload session.RegisterPayload
		if err := c.BodyParser(&payload); err != nil {
			return fiber.ErrBadRequest
		}

		form := registerForm(payload)
		if !form.Validate() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": form.Errors()})
		}

		if err := manager.Register(c.Context(), payload); err != nil {
			return c.Status(authStatus(err)).JSON(fiber.Map{"error": manager.CurrentState().Error})
		}

		return c.JSON(fiber.Map{"user": manager.CurrentState().User})
	})

	app.Post("/logout", func(c *fiber.Ctx) error {
		manager.Logout(c.Context())
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/session", func(c *fiber.Ctx) error {
		state := manager.CurrentState()
		return c.JSON(fiber.Map{
			"status":          state.Status,
			"isAuthenticated": state.IsAuthenticated,
			"user":            state.User,
			"error":           state.Error,
		})
	})

	feed := app.Group("/feed", guard.New(guardCfg))

	feed.Get("/news", func(c *fiber.Ctx) error {
		category := c.Query("category", "general")
		pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
		return c.JSON(news.TopHeadlines(c.Context(), category, pageSize))
	})

	feed.Get("/news/search", func(c *fiber.Ctx) error {
		pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
		return c.JSON(news.Search(c.Context(), c.Query("q"), pageSize))
	})

	feed.Get("/movies", func(c *fiber.Ctx) error {
		if q := c.Query("q"); q != "" {
			return c.JSON(movies.Search(c.Context(), q))
		}
		return c.JSON(movies.Popular(c.Context()))
	})

	feed.Get("/videos", func(c *fiber.Ctx) error {
		max, _ := strconv.Atoi(c.Query("limit", "12"))
		if q := c.Query("q"); q != "" {
			return c.JSON(videos.Search(c.Context(), q, max))
		}
		return c.JSON(videos.Popular(c.Context(), max))
	})

	feed.Get("/videos/cartoons", func(c *fiber.Ctx) error {
		max, _ := strconv.Atoi(c.Query("limit", "12"))
		return c.JSON(videos.Cartoons(c.Context(), max))
	})

	feed.Get("/videos/:id", func(c *fiber.Ctx) error {
		video, err := videos.Details(c.Context(), c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "video not found"})
		}
		return c.JSON(video)
	})

	return app
}

// authStatus maps a failed login/register to 401 for rejected credentials
// and 502 for everything else (backend unreachable, decode failures).
func authStatus(err error) int {
	if session.IsAuthError(err) {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusBadGateway
}

func loginForm(email, password string) *session.Form {
	return session.NewForm(
		map[string]string{"email": email, "password": password},
		map[string]session.Rules{
			"email":    {Required: true, Email: true},
			"password": {Required: true},
		},
	)
}

func registerForm(payload session.RegisterPayload) *session.Form {
	return session.NewForm(
		map[string]string{
			"name":     payload.Name,
			"email":    payload.Email,
			"password": payload.Password,
		},
		map[string]session.Rules{
			"name":     {Required: true, MinLength: 2, MaxLength: 50},
			"email":    {Required: true, Email: true},
			"password": {Required: true, Password: true},
		},
	)
}
