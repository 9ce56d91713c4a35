package session

import (
	"context"
	"net/http"
)

type retriedCtxKey struct{}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedCtxKey{}, true)
}

func wasRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedCtxKey{}).(bool)
	return v
}

// BearerTransport attaches the stored access token as a bearer credential on
// every outgoing request. It never overrides an Authorization header the
// caller set explicitly.
type BearerTransport struct {
	Base  http.RoundTripper
	Store Store
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if req.Header.Get("Authorization") == "" {
		if snapshot, err := t.Store.Load(); err == nil && snapshot.AccessToken != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+snapshot.AccessToken)
		}
	}

	return base.RoundTrip(req)
}

// RetryPolicy parameterizes the refresh-and-replay decorator. MaxRetries
// bounds retries per request, not refresh attempts across requests: two
// requests that 401 concurrently each run their own refresh (known gap).
type RetryPolicy struct {
	MaxRetries int
}

// DefaultRetryPolicy is the single refresh-and-retry the backend contract
// assumes.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 1}

// RefreshFunc exchanges the stored refresh token for a new pair and persists
// it. It must not route through the retrying transport itself.
type RefreshFunc func(ctx context.Context) (*TokenPair, error)

// RetryTransport replays a request once after an authorization failure. On a
// 401 with a refresh token stored it refreshes the token pair and re-sends
// the original request with the new bearer; if the refresh fails it clears
// the store and reports a forced logout through OnForcedLogout. A 401 with
// no stored refresh token passes through untouched.
type RetryTransport struct {
	Base           http.RoundTripper
	Store          Store
	Policy         RetryPolicy
	Refresh        RefreshFunc
	OnForcedLogout func()
	Logger         Logger
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	res, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusUnauthorized {
		return res, nil
	}

	if t.Policy.MaxRetries < 1 || wasRetried(req.Context()) || t.Refresh == nil {
		return res, nil
	}

	// Without a stored refresh token there is no session to refresh: the 401
	// is the final answer (a rejected login, not an expired session).
	if snapshot, loadErr := t.Store.Load(); loadErr != nil || snapshot.RefreshToken == "" {
		return res, nil
	}

	pair, refreshErr := t.Refresh(req.Context())
	if refreshErr != nil {
		t.logger().Warn("token refresh failed, forcing logout: %v", refreshErr)
		if clearErr := t.Store.Clear(); clearErr != nil {
			t.logger().Error("failed to clear session store: %v", clearErr)
		}
		if t.OnForcedLogout != nil {
			t.OnForcedLogout()
		}
		return res, nil
	}

	res.Body.Close()

	retry := req.Clone(markRetried(req.Context()))
	retry.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}

	return base.RoundTrip(retry)
}

func (t *RetryTransport) logger() Logger {
	if t.Logger == nil {
		return defLogger{}
	}
	return t.Logger
}
