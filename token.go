package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenClaims is the subset of access token claims the client inspects.
// Tokens are decoded without signature verification: the client holds no
// signing key, validation is the backend's job.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// DecodeToken decodes the payload of a bearer token. It does not verify the
// signature.
func DecodeToken(raw string) (*TokenClaims, error) {
	if raw == "" {
		return nil, errors.New("token is malformed: empty", errors.CategoryBadInput).
			WithTextCode("TOKEN_MALFORMED")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "token is malformed").
			WithTextCode("TOKEN_MALFORMED")
	}

	decoded := &TokenClaims{}

	if sub, err := claims.GetSubject(); err == nil {
		decoded.Subject = sub
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("token has no expiry claim", errors.CategoryBadInput).
			WithTextCode("TOKEN_NO_EXPIRY")
	}
	decoded.ExpiresAt = exp.Time

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		decoded.IssuedAt = iat.Time
	}

	return decoded, nil
}

// IsExpired reports whether the token's exp claim is in the past. Any token
// that cannot be decoded, or that carries no exp, counts as expired: the
// fail-safe direction is re-authentication, never trusting a bad token.
func IsExpired(raw string) bool {
	return isExpiredAt(raw, time.Now())
}

func isExpiredAt(raw string, now time.Time) bool {
	claims, err := DecodeToken(raw)
	if err != nil {
		return true
	}
	return !claims.ExpiresAt.After(now)
}
