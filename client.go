package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

const defaultHTTPTimeout = 15 * time.Second

// Client talks to the backend auth endpoints. Outgoing requests carry the
// stored bearer token; a 401 response triggers one refresh-and-replay. When
// the backend is unreachable and an OfflineProvider is configured, login and
// register degrade to the offline path.
type Client struct {
	baseURL        string
	store          Store
	http           *http.Client
	bare           *http.Client
	offline        OfflineProvider
	policy         RetryPolicy
	logger         Logger
	onForcedLogout func()
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport becomes
// the base the interceptors wrap.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithOfflineProvider installs the degraded-mode authentication strategy.
func WithOfflineProvider(p OfflineProvider) ClientOption {
	return func(c *Client) {
		c.offline = p
	}
}

// WithRetryPolicy overrides the single-retry default.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithClientLogger sets the logger used by the client and its transports.
func WithClientLogger(l Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithForcedLogoutHandler registers the callback fired when a failed refresh
// terminates the session. The Manager uses this to transition state; a
// browser equivalent would navigate to the login page.
func WithForcedLogoutHandler(fn func()) ClientOption {
	return func(c *Client) {
		c.onForcedLogout = fn
	}
}

func NewClient(baseURL string, store Store, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		policy:  DefaultRetryPolicy,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// The refresh call and the offline probes go through a bare client so a
	// 401 on /auth/refresh can never recurse into another refresh.
	c.bare = &http.Client{Timeout: c.http.Timeout, Transport: base}

	c.http = &http.Client{
		Timeout: c.http.Timeout,
		Transport: &RetryTransport{
			Base:           &BearerTransport{Base: base, Store: store},
			Store:          store,
			Policy:         c.policy,
			Refresh:        c.doRefresh,
			OnForcedLogout: c.onForcedLogout,
			Logger:         c.logger,
		},
	}

	return c
}

// Login authenticates the credential pair against POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}

	var creds Credentials
	err := c.postJSON(ctx, "/auth/login", payload, &creds)
	if err == nil {
		return &creds, nil
	}

	if c.offline != nil && isBackendUnavailable(err) {
		c.logger.Warn("backend not available, using offline authentication")
		return c.offline.Login(ctx, email, password)
	}

	return nil, apiError(err, "Login failed")
}

// Register creates an account through POST /auth/register.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*Credentials, error) {
	var creds Credentials
	err := c.postJSON(ctx, "/auth/register", payload, &creds)
	if err == nil {
		return &creds, nil
	}

	if c.offline != nil && isBackendUnavailable(err) {
		c.logger.Warn("backend not available, using offline registration")
		return c.offline.Register(ctx, payload)
	}

	return nil, apiError(err, "Registration failed")
}

// Logout notifies the backend and clears the persisted session. The remote
// call is best effort: local state is gone either way, and the remote error
// is returned only for the caller's logging.
func (c *Client) Logout(ctx context.Context) error {
	remoteErr := c.postJSON(ctx, "/auth/logout", nil, nil)

	if err := c.store.Clear(); err != nil {
		c.logger.Error("failed to clear session store on logout: %v", err)
		return err
	}

	if remoteErr != nil {
		c.logger.Warn("server logout failed: %v", remoteErr)
		return apiError(remoteErr, "Logout failed")
	}

	return nil
}

// RefreshToken exchanges the stored refresh token for a new pair and persists
// it alongside the existing user record.
func (c *Client) RefreshToken(ctx context.Context) (*TokenPair, error) {
	return c.doRefresh(ctx)
}

// Profile fetches the authenticated user record from GET /auth/profile.
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	var user json.RawMessage
	if err := c.getJSON(ctx, "/auth/profile", &user); err != nil {
		return nil, apiError(err, "Failed to get profile")
	}
	return user, nil
}

// ValidateToken asks the backend whether the current token is still good.
// Remote failures read as "not valid" rather than erroring: the caller's
// next move is re-authentication either way.
func (c *Client) ValidateToken(ctx context.Context) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := c.getJSON(ctx, "/auth/validate", &out); err != nil {
		return false, nil
	}
	return out.Valid, nil
}

func (c *Client) doRefresh(ctx context.Context) (*TokenPair, error) {
	snapshot, err := c.store.Load()
	if err != nil || snapshot.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refreshToken": snapshot.RefreshToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.bare.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "Token refresh failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, backendError(res, "Token refresh failed")
	}

	var pair TokenPair
	if err := json.NewDecoder(res.Body).Decode(&pair); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "Token refresh failed")
	}

	snapshot.AccessToken = pair.AccessToken
	snapshot.RefreshToken = pair.RefreshToken
	if err := c.store.Save(snapshot); err != nil {
		return nil, err
	}

	return &pair, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "backend not reachable").
			WithTextCode("NETWORK_ERROR")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return backendError(res, "")
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// backendError converts a non-2xx response into a rich error carrying the
// backend's message when one is present.
func backendError(res *http.Response, fallback string) error {
	var payload struct {
		Message string `json:"message"`
	}

	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	json.Unmarshal(data, &payload)

	// No status-line fallback here: an empty message lets apiError supply the
	// operation-specific text instead of leaking "401 Unauthorized".
	msg := payload.Message
	if msg == "" {
		msg = fallback
	}

	category := errors.CategoryOperation
	code := res.StatusCode
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		category = errors.CategoryAuth
	}

	return errors.New(msg, category).
		WithCode(code).
		WithMetadata(map[string]any{"status": res.StatusCode})
}

// isBackendUnavailable matches the conditions under which the original client
// fell back to offline auth: network failure or a server-side (5xx) error.
func isBackendUnavailable(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	if rich.TextCode == "NETWORK_ERROR" {
		return true
	}
	return rich.Code >= 500
}

// apiError keeps the backend's message when available, otherwise wraps with
// the operation-specific fallback.
func apiError(err error, fallback string) error {
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Message != "" && rich.TextCode != "NETWORK_ERROR" {
		return rich
	}
	return errors.Wrap(err, errors.CategoryAuth, fallback).
		WithCode(errors.CodeUnauthorized)
}
