package session

import "encoding/json"

// Status is the session lifecycle state.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	StatusError           Status = "error"
)

// State is the session snapshot the application observes. Only the user
// field and the derived tokens are ever persisted; State itself is not.
type State struct {
	Status          Status
	User            json.RawMessage
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// InitialState is the state at process start.
func InitialState() State {
	return State{Status: StatusIdle}
}

// Action is a tagged request to mutate session state. The variants are the
// only way State changes.
type Action interface {
	kind() string
}

// StartAction begins a login or register attempt.
type StartAction struct{}

// SuccessAction records an authenticated user.
type SuccessAction struct {
	User json.RawMessage
}

// FailureAction records an authentication failure message.
type FailureAction struct {
	Message string
}

// LogoutAction drops the session.
type LogoutAction struct{}

// ClearErrorAction clears the error field, leaving everything else alone.
type ClearErrorAction struct{}

func (StartAction) kind() string      { return "start" }
func (SuccessAction) kind() string    { return "success" }
func (FailureAction) kind() string    { return "failure" }
func (LogoutAction) kind() string     { return "logout" }
func (ClearErrorAction) kind() string { return "clear_error" }

// startable are the statuses from which a login/register attempt may begin.
// A second submission while one is in flight is ignored here; the design
// leans on callers preventing duplicate submissions, not on locking.
var startable = map[Status]struct{}{
	StatusIdle:            {},
	StatusUnauthenticated: {},
	StatusError:           {},
}

// settleable are the statuses a success or failure may resolve from. Idle is
// included for boot-time restoration, which never passes through loading.
var settleable = map[Status]struct{}{
	StatusIdle:    {},
	StatusLoading: {},
}

// Reduce is the pure transition function mapping (state, action) to the next
// state. It performs no I/O. Actions that are not legal from the current
// status return the state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case StartAction:
		if _, ok := startable[state.Status]; !ok {
			return state
		}
		state.Status = StatusLoading
		state.Loading = true
		state.Error = ""
		return state

	case SuccessAction:
		if _, ok := settleable[state.Status]; !ok {
			return state
		}
		state.Status = StatusAuthenticated
		state.User = a.User
		state.IsAuthenticated = true
		state.Loading = false
		state.Error = ""
		return state

	case FailureAction:
		if _, ok := settleable[state.Status]; !ok {
			return state
		}
		state.Status = StatusError
		state.User = nil
		state.IsAuthenticated = false
		state.Loading = false
		state.Error = a.Message
		return state

	case LogoutAction:
		return State{Status: StatusUnauthenticated}

	case ClearErrorAction:
		state.Error = ""
		return state
	}

	return state
}
