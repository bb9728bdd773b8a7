// Package goBroker provides an authenticated session client for a brokerage's
// private web API: password login with device-challenge and MFA second steps,
// bearer-token sessions, refresh-token rotation, and durable session
// dump/restore across process restarts.
//
// A [Client] owns exactly one session. Operations that mutate the session
// (Login, Logout, Refresh, Load) serialize internally; the session is only
// committed after the full flow succeeds, so a failed or cancelled login
// never leaves partial token state behind.
//
// # Architecture boundaries
//
// goBroker is the public surface. It exposes [Client], [Builder], [Config],
// the [ChallengeReader] capability, and value types (SessionInfo,
// MetricsSnapshot, AuditEvent). Wire shapes, the transport adapter, the
// session codec, and audit dispatching live under internal/ and are never
// exported. Durable blob backends live in the store sub-package.
//
// # What this package must NOT do
//
//   - Retry failed requests. Every failure maps to exactly one error kind
//     (ErrUninitialized, ErrUnauthenticated, *APIError, *RequestError) and is
//     terminal for the in-flight call; retry policy belongs to the caller.
//   - Persist credentials. Username and password are used once per Login
//     call and never stored or serialized.
//   - Expose the trading/quotes/orders API surface. This package ends at the
//     authenticated session; broader endpoints consume [Client.Token].
package goBroker
