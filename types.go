package session

import (
	"context"
	"encoding/json"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenPair holds the bearer credentials issued by the backend. The access
// token is a decodable JWT carrying an expiry; the refresh token is opaque.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the backend response to login/register: a token pair plus
// the user record, kept opaque beyond the fields we consume.
type Credentials struct {
	TokenPair
	User json.RawMessage `json:"user"`
}

// RegisterPayload is the sign-up payload.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthAPI is the surface the Manager needs from the auth client. Client
// implements it; tests substitute their own.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, payload RegisterPayload) (*Credentials, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*TokenPair, error)
}

// OfflineProvider is the degraded-mode strategy consulted when the backend is
// unreachable. Production wiring leaves it nil.
type OfflineProvider interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, payload RegisterPayload) (*Credentials, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
