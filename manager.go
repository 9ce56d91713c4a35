package session

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Listener observes state changes. Listeners run synchronously after each
// transition, outside the manager's lock.
type Listener func(State)

// Manager owns the session: it wires the persistent store and the auth
// client to the pure reducer, and is the only writer of State. All I/O lives
// here so Reduce stays independently testable.
type Manager struct {
	mu        sync.RWMutex
	state     State
	store     Store
	api       AuthAPI
	logger    Logger
	sink      ActivitySink
	now       func() time.Time
	listeners []Listener
}

type ManagerOption func(*Manager)

// WithManagerLogger overrides the default logger.
func WithManagerLogger(l Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithManagerActivitySink sets the ActivitySink used to publish auth events.
func WithManagerActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithManagerClock injects a custom clock (useful for tests).
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

func NewManager(store Store, api AuthAPI, opts ...ManagerOption) *Manager {
	m := &Manager{
		state:  InitialState(),
		store:  store,
		api:    api,
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// CurrentState returns a copy of the session state.
func (m *Manager) CurrentState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated is the derived flag route guards consume.
func (m *Manager) IsAuthenticated() bool {
	return m.CurrentState().IsAuthenticated
}

// Subscribe registers a listener for state changes.
func (m *Manager) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Initialize restores a persisted session at process start. A valid stored
// token plus user marks the session authenticated; an expired token gets one
// refresh attempt; anything else ends unauthenticated with storage cleared.
func (m *Manager) Initialize(ctx context.Context) {
	snapshot, err := m.store.Load()
	if err != nil || snapshot.AccessToken == "" || len(snapshot.User) == 0 {
		// Token without user (or vice versa) is a broken set; start clean.
		if err == nil {
			m.clearStore()
		}
		m.dispatch(LogoutAction{})
		return
	}

	if !isExpiredAt(snapshot.AccessToken, m.now()) {
		m.dispatch(SuccessAction{User: snapshot.User})
		m.emit(ctx, ActivityEventSessionRestored, nil)
		return
	}

	if _, err := m.api.RefreshToken(ctx); err != nil {
		m.logger.Info("session restore refresh failed: %v", err)
		m.clearStore()
		m.dispatch(LogoutAction{})
		return
	}

	// The client re-persisted the token pair; the stored user survives.
	m.dispatch(SuccessAction{User: snapshot.User})
	m.emit(ctx, ActivityEventSessionRestored, map[string]any{"refreshed": true})
}

// Login authenticates and persists the resulting session. The returned error
// mirrors State.Error for callers that prefer the error flow.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.dispatch(StartAction{})

	creds, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.dispatch(FailureAction{Message: errorMessage(err)})
		m.emit(ctx, ActivityEventLoginFailure, map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return err
	}

	return m.establish(ctx, creds, ActivityEventLoginSuccess, ActivityEventLoginFailure)
}

// Register creates an account and persists the resulting session.
func (m *Manager) Register(ctx context.Context, payload RegisterPayload) error {
	m.dispatch(StartAction{})

	creds, err := m.api.Register(ctx, payload)
	if err != nil {
		m.dispatch(FailureAction{Message: errorMessage(err)})
		m.emit(ctx, ActivityEventRegisterFailure, map[string]any{
			"email": payload.Email,
			"error": err.Error(),
		})
		return err
	}

	return m.establish(ctx, creds, ActivityEventRegisterSuccess, ActivityEventRegisterFailure)
}

// Logout ends the session. It is idempotent and never fails past this
// boundary: the persisted session is cleared even when the remote call
// errors.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Warn("logout error: %v", err)
	}

	m.clearStore()
	m.dispatch(LogoutAction{})
	m.emit(ctx, ActivityEventLogout, nil)
}

// ClearError drops the current error message.
func (m *Manager) ClearError() {
	m.dispatch(ClearErrorAction{})
}

// HandleForcedLogout transitions to unauthenticated after the transport
// cleared the session on a failed refresh. Wire it through
// WithForcedLogoutHandler on the client.
func (m *Manager) HandleForcedLogout() {
	m.dispatch(LogoutAction{})
	m.emit(context.Background(), ActivityEventForcedLogout, nil)
}

func (m *Manager) establish(ctx context.Context, creds *Credentials, success, failure ActivityEventType) error {
	snapshot := Snapshot{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User:         creds.User,
	}

	if err := m.store.Save(snapshot); err != nil {
		m.logger.Error("failed to persist session: %v", err)
		m.dispatch(FailureAction{Message: errorMessage(err)})
		m.emit(ctx, failure, map[string]any{"error": err.Error()})
		return err
	}

	m.dispatch(SuccessAction{User: creds.User})
	m.emit(ctx, success, nil)
	return nil
}

func (m *Manager) dispatch(action Action) {
	m.mu.Lock()
	next := Reduce(m.state, action)
	changed := next.Status != m.state.Status ||
		next.Error != m.state.Error ||
		next.Loading != m.state.Loading
	m.state = next
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if !changed {
		return
	}

	for _, fn := range listeners {
		fn(next)
	}
}

func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear session store: %v", err)
	}
}

func (m *Manager) emit(ctx context.Context, eventType ActivityEventType, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	event := ActivityEvent{
		EventType:  eventType,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	if err := m.sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return err.Error()
}
