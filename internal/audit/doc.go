// Package audit implements async event dispatching for session lifecycle
// operations: login, challenge and MFA resolution, refresh, logout, and
// session dump/load.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event] — structured audit record with timestamp, type, account, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide
// which events to emit — that responsibility belongs to the Client.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Record credentials or token values in any event field.
//   - Import goBroker or any sibling internal package.
package audit
