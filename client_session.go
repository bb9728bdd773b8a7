package goBroker

import (
	"context"
	"time"

	"github.com/halworth/goBroker/internal/api"
	"github.com/halworth/goBroker/internal/audit"
)

// Logout invalidates the server-side refresh grant and clears the session
// atomically: both tokens and the account identity go together.
//
// On failure (*APIError, *RequestError) the session is left untouched so
// the caller can retry.
func (c *Client) Logout(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	snap := c.snapshotSession()
	if !snap.Authenticated() {
		return ErrUnauthenticated
	}
	if c.transport == nil {
		return ErrUninitialized
	}

	req := api.LogoutRequest{
		ClientID: c.config.OAuth.ClientID,
		Token:    snap.RefreshToken,
	}

	resp, err := c.transport.PostJSON(ctx, api.PathLogout, req, nil)
	if err != nil {
		wrapped := wrapRequestErr("logout", err)
		c.metricInc(MetricRequestError)
		c.auditEmit(ctx, audit.EventLogout, false, wrapped, nil)
		return wrapped
	}
	if !resp.OK() {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
		c.metricInc(MetricAPIError)
		c.auditEmit(ctx, audit.EventLogout, false, apiErr, nil)
		return apiErr
	}

	c.auditEmit(ctx, audit.EventLogout, true, nil, nil)

	c.mu.Lock()
	c.sess.Clear()
	c.mu.Unlock()

	c.metricInc(MetricLogout)
	return nil
}

// Refresh exchanges the refresh token for a new token pair. The server
// may rotate the refresh token; both tokens are always overwritten, the
// account identity never is.
//
// Without a refresh token in hand, Refresh returns [ErrUnauthenticated]
// before any network call. On failure the session is left untouched.
func (c *Client) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	snap := c.snapshotSession()
	if !snap.Authenticated() {
		return ErrUnauthenticated
	}
	if c.transport == nil {
		return ErrUninitialized
	}

	req := api.LoginRequest{
		GrantType:    api.GrantTypeRefreshToken,
		Scope:        c.config.OAuth.Scope,
		ClientID:     c.config.OAuth.ClientID,
		DeviceToken:  c.config.OAuth.DeviceToken,
		ExpiresIn:    c.config.OAuth.ExpiresIn,
		RefreshToken: snap.RefreshToken,
	}

	resp, err := c.transport.PostJSON(ctx, api.PathLogin, req, nil)
	if err != nil {
		wrapped := wrapRequestErr("refresh", err)
		c.metricInc(MetricRefreshFailure)
		c.metricInc(MetricRequestError)
		c.auditEmit(ctx, audit.EventRefresh, false, wrapped, nil)
		return wrapped
	}
	if !resp.OK() {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
		c.metricInc(MetricRefreshFailure)
		c.metricInc(MetricAPIError)
		c.auditEmit(ctx, audit.EventRefresh, false, apiErr, nil)
		return apiErr
	}

	outcome, err := api.DecodeLoginResponse(resp.Body)
	if err != nil || outcome.Kind != api.OutcomeTokens {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
		c.metricInc(MetricRefreshFailure)
		c.metricInc(MetricAPIError)
		c.auditEmit(ctx, audit.EventRefresh, false, apiErr, nil)
		return apiErr
	}

	c.mu.Lock()
	c.sess.SetTokens("Bearer "+outcome.AccessToken, outcome.RefreshToken)
	c.mu.Unlock()

	c.metricInc(MetricRefreshSuccess)
	c.auditEmit(ctx, audit.EventRefresh, true, nil, nil)
	return nil
}

// RefreshIfExpiring refreshes when the access token's expiry falls within
// window. When the token carries no readable expiry the refresh happens
// unconditionally. Returns whether a refresh was performed.
func (c *Client) RefreshIfExpiring(ctx context.Context, window time.Duration) (bool, error) {
	expiry, ok := c.TokenExpiry()
	if ok && time.Until(expiry) > window {
		return false, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}
