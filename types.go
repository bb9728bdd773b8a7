package goBroker

import (
	"io"
	"time"

	internalaudit "github.com/halworth/goBroker/internal/audit"
)

// Credentials is a username/password pair. It is used once per Login call
// and never persisted or serialized.
type Credentials struct {
	Username string
	Password string
}

// SessionInfo is a read-only snapshot of the client's session, returned by
// [Client.SessionInfo]. Token values are deliberately absent; callers that
// need the bearer header use [Client.Token].
type SessionInfo struct {
	Authenticated bool
	AccountNumber string
	AccountURL    string

	// TokenExpiry is the access token's expiry instant when the token
	// carries one, zero otherwise.
	TokenExpiry time.Time
}

// AuditEvent is a structured audit record emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// Audit event types carried in [AuditEvent].EventType.
const (
	AuditEventLogin     = internalaudit.EventLogin
	AuditEventChallenge = internalaudit.EventChallenge
	AuditEventMFA       = internalaudit.EventMFA
	AuditEventRefresh   = internalaudit.EventRefresh
	AuditEventLogout    = internalaudit.EventLogout
	AuditEventDump      = internalaudit.EventDump
	AuditEventLoad      = internalaudit.EventLoad
)

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
