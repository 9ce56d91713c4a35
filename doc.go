// Package session is the client-side session layer for the Stylefeed
// backend: token inspection, persistent storage of the token/user snapshot,
// an auth HTTP client with bearer and refresh-on-401 transports, and a
// reducer-driven session state machine.
//
// Session lifecycle:
//   - Manager owns the State and is its only writer. At startup Initialize
//     restores a persisted session, refreshing an expired token once before
//     giving up and clearing storage. Login, Register, Logout, and ClearError
//     dispatch tagged actions through the pure Reduce function so transitions
//     stay I/O free and independently testable.
//
// Transports:
//   - BearerTransport attaches the stored access token to outgoing requests.
//     RetryTransport replays a request exactly once after a 401, refreshing
//     the token pair first; a failed refresh clears the store and fires the
//     forced-logout callback the Manager subscribes to.
//
// Degraded mode:
//   - An OfflineProvider is an explicit, injectable strategy used only when
//     the backend is unreachable. DemoProvider accepts a fixed demo
//     credential pair and mints locally signed tokens; omit it in production.
package session
