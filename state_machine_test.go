package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	session "github.com/stylefeed/go-session"
)

func TestReduceLoginFlow(t *testing.T) {
	user := json.RawMessage(`{"id":"1"}`)

	state := session.InitialState()
	assert.Equal(t, session.StatusIdle, state.Status)
	assert.False(t, state.IsAuthenticated)

	state = session.Reduce(state, session.StartAction{})
	assert.Equal(t, session.StatusLoading, state.Status)
	assert.True(t, state.Loading)
	assert.Empty(t, state.Error)

	state = session.Reduce(state, session.SuccessAction{User: user})
	assert.Equal(t, session.StatusAuthenticated, state.Status)
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Equal(t, user, state.User)

	state = session.Reduce(state, session.LogoutAction{})
	assert.Equal(t, session.StatusUnauthenticated, state.Status)
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
}

func TestReduceFailure(t *testing.T) {
	state := session.Reduce(session.InitialState(), session.StartAction{})
	state = session.Reduce(state, session.FailureAction{Message: "Login failed"})

	assert.Equal(t, session.StatusError, state.Status)
	assert.Equal(t, "Login failed", state.Error)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)

	// A new attempt can start from the error state and clears the message.
	state = session.Reduce(state, session.StartAction{})
	assert.Equal(t, session.StatusLoading, state.Status)
	assert.Empty(t, state.Error)
}

func TestReduceBootRestoration(t *testing.T) {
	// Boot-time restoration settles straight from idle, without a loading
	// phase.
	user := json.RawMessage(`{"id":"1"}`)
	state := session.Reduce(session.InitialState(), session.SuccessAction{User: user})

	assert.Equal(t, session.StatusAuthenticated, state.Status)
	assert.True(t, state.IsAuthenticated)
}

func TestReduceClearError(t *testing.T) {
	state := session.Reduce(session.InitialState(), session.StartAction{})
	state = session.Reduce(state, session.FailureAction{Message: "bad credentials"})
	state = session.Reduce(state, session.ClearErrorAction{})

	assert.Empty(t, state.Error)
	assert.Equal(t, session.StatusError, state.Status)
}

func TestReduceIgnoresInvalidTransitions(t *testing.T) {
	user := json.RawMessage(`{"id":"1"}`)

	authenticated := session.Reduce(session.InitialState(), session.SuccessAction{User: user})

	t.Run("start while authenticated", func(t *testing.T) {
		next := session.Reduce(authenticated, session.StartAction{})
		assert.Equal(t, authenticated, next)
	})

	t.Run("success without attempt", func(t *testing.T) {
		unauthenticated := session.Reduce(session.InitialState(), session.LogoutAction{})
		next := session.Reduce(unauthenticated, session.SuccessAction{User: user})
		assert.Equal(t, unauthenticated, next)
	})

	t.Run("failure while authenticated", func(t *testing.T) {
		next := session.Reduce(authenticated, session.FailureAction{Message: "x"})
		assert.Equal(t, authenticated, next)
	})
}

func TestReduceIsPure(t *testing.T) {
	state := session.InitialState()
	_ = session.Reduce(state, session.StartAction{})

	assert.Equal(t, session.InitialState(), state)
}
