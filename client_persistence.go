package goBroker

import (
	"context"
	"errors"

	"github.com/halworth/goBroker/internal/audit"
	"github.com/halworth/goBroker/internal/session"
	"github.com/halworth/goBroker/store"
)

// Dump serializes the session's token pair to the durable store,
// overwriting any prior blob. Account identity is not written; Load
// re-fetches it as a liveness check on the restored token.
//
// Requires an authenticated session; returns [ErrUnauthenticated]
// otherwise, before touching the store.
func (c *Client) Dump(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	snap := c.snapshotSession()
	if !snap.Authenticated() {
		return ErrUnauthenticated
	}

	blob, err := session.Encode(&snap)
	if err != nil {
		return err
	}
	if err := c.blobs.Write(ctx, blob); err != nil {
		c.auditEmit(ctx, audit.EventDump, false, err, nil)
		return err
	}

	c.metricInc(MetricSessionDumped)
	c.auditEmit(ctx, audit.EventDump, true, nil, nil)
	return nil
}

// Load restores the token pair from the durable store and validates it
// with a live account fetch, adopting the account identity on success.
//
// When the store holds no blob ([store.ErrNoSession]) or the blob does
// not decode, the client's in-memory tokens are revalidated instead; with
// neither available Load returns [ErrUnauthenticated] before any network
// call. An unreachable store is not a fallback case: its error is
// returned as-is so an outage cannot silently degrade into reusing stale
// in-memory tokens. An invalid restored token surfaces as the account
// fetch's *APIError. On any failure the in-memory session is left
// unmodified.
func (c *Client) Load(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	candidate := c.snapshotSession()

	blob, err := c.blobs.Read(ctx)
	switch {
	case err == nil:
		if restored, decErr := session.Decode(blob); decErr == nil {
			candidate = *restored
		}
	case errors.Is(err, store.ErrNoSession):
		// Nothing durable; fall through to the in-memory pair.
	default:
		c.auditEmit(ctx, audit.EventLoad, false, err, nil)
		return err
	}

	if !candidate.Authenticated() {
		err := ErrUnauthenticated
		c.auditEmit(ctx, audit.EventLoad, false, err, nil)
		return err
	}
	if c.transport == nil {
		return ErrUninitialized
	}

	account, err := c.fetchAccount(ctx, candidate.AccessToken)
	if err != nil {
		c.countErrorKind(err)
		c.auditEmit(ctx, audit.EventLoad, false, err, nil)
		return err
	}
	candidate.SetAccount(account.AccountNumber, account.URL)

	c.mu.Lock()
	c.sess = candidate
	c.mu.Unlock()

	c.metricInc(MetricSessionLoaded)
	c.auditEmit(ctx, audit.EventLoad, true, nil, nil)
	return nil
}
