package goBroker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	internalaudit "github.com/halworth/goBroker/internal/audit"
	"github.com/halworth/goBroker/internal/session"
	"github.com/halworth/goBroker/internal/transport"
	"github.com/halworth/goBroker/store"
)

// Client holds one authenticated brokerage session and drives its
// lifecycle: login (with device-challenge and MFA second steps), refresh,
// logout, and durable dump/restore.
//
// State-changing operations (Login, Logout, Refresh, Load) serialize on an
// internal lock; two goroutines may call them concurrently but the calls
// execute one at a time. Read accessors never block behind an in-flight
// operation's network round-trips: the session is only locked briefly at
// commit points.
type Client struct {
	config     Config
	transport  *transport.Client
	challenges ChallengeReader
	blobs      store.Store
	audit      *internalaudit.Dispatcher
	metrics    *Metrics

	// opMu serializes state-changing operations end to end. mu guards
	// sess; it is never held across network or operator I/O.
	opMu sync.Mutex
	mu   sync.Mutex
	sess session.Session
}

// Close flushes and stops the audit dispatcher. The client must not be
// used afterwards.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// Authenticated reports whether the client holds a token pair.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Authenticated()
}

// Token returns the Authorization header value ("Bearer <token>") for the
// current session, for callers invoking broader API endpoints themselves.
func (c *Client) Token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sess.Authenticated() {
		return "", ErrUnauthenticated
	}
	return c.sess.AccessToken, nil
}

// SessionInfo returns a read-only snapshot of the session.
func (c *Client) SessionInfo() SessionInfo {
	snap := c.snapshotSession()
	info := SessionInfo{
		Authenticated: snap.Authenticated(),
		AccountNumber: snap.AccountNumber,
		AccountURL:    snap.AccountURL,
	}
	if exp, ok := accessTokenExpiry(snap.AccessToken); ok {
		info.TokenExpiry = exp
	}
	return info
}

// TokenExpiry returns the access token's expiry instant. The provider
// issues JWT-shaped access tokens; the claims are parsed without signature
// verification (the signing key is the provider's, not ours) purely to
// read the exp claim. ok is false when no session is held or the token
// does not parse as a JWT.
func (c *Client) TokenExpiry() (expiry time.Time, ok bool) {
	return accessTokenExpiry(c.snapshotSession().AccessToken)
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped under
// backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) snapshotSession() session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func (c *Client) metricObserve(id MetricID, d time.Duration) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Observe(id, d)
}

func (c *Client) auditEmit(ctx context.Context, eventType string, success bool, opErr error, metadata map[string]string) {
	if c == nil || c.audit == nil {
		return
	}
	event := internalaudit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Success:   success,
		Metadata:  metadata,
	}
	c.mu.Lock()
	event.AccountNumber = c.sess.AccountNumber
	c.mu.Unlock()
	if opErr != nil {
		event.Error = opErr.Error()
	}
	c.audit.Emit(ctx, event)
}

func accessTokenExpiry(access string) (time.Time, bool) {
	raw := strings.TrimPrefix(access, "Bearer ")
	if raw == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
