// Package guard is the route guard for session-protected routes: it lets
// authenticated navigation proceed and redirects everything else to the
// login entry point, remembering the requested destination for the
// post-login return.
package guard

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	defaultLoginPath      = "/login"
	defaultRedirectCookie = "rejected_route"
	defaultCookieTTL      = 5 * time.Minute
)

// Config holds guard options. IsAuthenticated is the only required field:
// the guard itself is a pure function of that flag and keeps no state.
type Config struct {
	// IsAuthenticated reports whether the current session is authenticated.
	// Wire the session Manager's IsAuthenticated here.
	IsAuthenticated func(c *fiber.Ctx) bool

	// Filter skips the guard for matching requests (public routes).
	Filter func(c *fiber.Ctx) bool

	// LoginPath is where unauthenticated navigation is sent. Defaults to
	// "/login".
	LoginPath string

	// RedirectCookie names the cookie remembering the rejected destination.
	RedirectCookie string

	// CookieTTL bounds how long the remembered destination stays valid.
	CookieTTL time.Duration

	// ErrorHandler overrides the default unauthenticated response.
	ErrorHandler func(c *fiber.Ctx, err error) error
}

func (cfg *Config) setDefaults() {
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.RedirectCookie == "" {
		cfg.RedirectCookie = defaultRedirectCookie
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = defaultCookieTTL
	}
}

// ErrUnauthenticated is passed to the ErrorHandler when the session check
// fails.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// New returns the guard middleware.
func New(cfg Config) fiber.Handler {
	cfg.setDefaults()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		if cfg.IsAuthenticated != nil && cfg.IsAuthenticated(c) {
			return c.Next()
		}

		if cfg.ErrorHandler != nil {
			return cfg.ErrorHandler(c, ErrUnauthenticated)
		}

		return deny(c, cfg)
	}
}

func deny(c *fiber.Ctx, cfg Config) error {
	if wantsHTML(c) {
		SetRedirect(c, cfg)

		status := fiber.StatusSeeOther
		if c.Method() == fiber.MethodGet {
			status = fiber.StatusFound
		}
		return c.Redirect(cfg.LoginPath, status)
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Authentication required",
	})
}

// SetRedirect remembers the originally requested URL in a short-lived cookie
// so the login flow can send the user back.
func SetRedirect(c *fiber.Ctx, cfg Config) {
	cfg.setDefaults()

	c.Cookie(&fiber.Cookie{
		Name:     cfg.RedirectCookie,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(cfg.CookieTTL),
		HTTPOnly: true,
		// Secure tracks the request scheme so plain-HTTP deployments still
		// get their destination back.
		Secure:   c.Secure(),
		SameSite: "Lax",
	})
}

// ConsumeRedirect returns the remembered destination, clearing the cookie,
// or fallback if none was stored.
func ConsumeRedirect(c *fiber.Ctx, cfg Config, fallback string) string {
	cfg.setDefaults()

	dest := c.Cookies(cfg.RedirectCookie)
	if dest == "" {
		return fallback
	}

	c.Cookie(&fiber.Cookie{
		Name:     cfg.RedirectCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
	})

	return dest
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}
