package session

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrNoSession is returned by stores when no snapshot is persisted, or when
// the persisted data is unreadable and gets treated as absent.
var ErrNoSession = errors.New("no persisted session", errors.CategoryNotFound).
	WithTextCode("NO_SESSION").
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials is returned by the offline provider when the demo
// credential pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrNoRefreshToken means a refresh was attempted without a stored refresh token.
var ErrNoRefreshToken = errors.New("no refresh token available", errors.CategoryAuth).
	WithTextCode("NO_REFRESH_TOKEN").
	WithCode(errors.CodeUnauthorized)

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsAuthError reports whether err carries the auth category.
func IsAuthError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth
}
