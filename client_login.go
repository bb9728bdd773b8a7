package goBroker

import (
	"context"
	"net/http"
	"time"

	"github.com/halworth/goBroker/internal/api"
	"github.com/halworth/goBroker/internal/audit"
	"github.com/halworth/goBroker/internal/session"
)

// Login authenticates with the given credentials and populates the
// session: token pair plus the account identity fetched right after.
//
// The server may demand a second step before issuing tokens: a device
// challenge (bounded retry budget, code read through the ChallengeReader)
// or an MFA code (single attempt). Both are resolved synchronously inside
// this call.
//
// On any failure the session is left empty. Calling Login while already
// authenticated re-runs the whole flow and overwrites the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if c.transport == nil {
		return ErrUninitialized
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	start := time.Now()
	next, err := c.login(ctx, username, password)

	if err != nil {
		c.mu.Lock()
		c.sess.Clear()
		c.mu.Unlock()
		c.metricInc(MetricLoginFailure)
		c.countErrorKind(err)
		c.auditEmit(ctx, audit.EventLogin, false, err, nil)
		return err
	}

	c.mu.Lock()
	c.sess = *next
	c.mu.Unlock()

	c.metricInc(MetricLoginSuccess)
	c.metricObserve(MetricLoginLatency, time.Since(start))
	c.auditEmit(ctx, audit.EventLogin, true, nil, nil)
	return nil
}

// LoginWith is Login with the credentials bundled in a [Credentials] value.
func (c *Client) LoginWith(ctx context.Context, creds Credentials) error {
	return c.Login(ctx, creds.Username, creds.Password)
}

// login runs the credential flow against a private candidate session and
// returns it fully populated. The client's own session is not touched, so
// cancellation at any point leaves no partial token state.
func (c *Client) login(ctx context.Context, username, password string) (*session.Session, error) {
	req := api.LoginRequest{
		GrantType:     api.GrantTypePassword,
		Scope:         c.config.OAuth.Scope,
		ClientID:      c.config.OAuth.ClientID,
		DeviceToken:   c.config.OAuth.DeviceToken,
		ExpiresIn:     c.config.OAuth.ExpiresIn,
		Username:      username,
		Password:      password,
		ChallengeType: c.config.Challenge.Type,
	}

	var (
		challengeID  string
		mfaAttempted bool
	)

	for {
		headers := http.Header{}
		if challengeID != "" {
			headers.Set(api.HeaderChallengeResponseID, challengeID)
		}

		resp, err := c.transport.PostJSON(ctx, api.PathLogin, req, headers)
		if err != nil {
			return nil, wrapRequestErr("login", err)
		}
		if !resp.OK() {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
		}

		outcome, err := api.DecodeLoginResponse(resp.Body)
		if err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
		}

		switch outcome.Kind {
		case api.OutcomeChallenge:
			c.metricInc(MetricChallengeIssued)
			id, err := c.resolveChallenge(ctx, outcome.Challenge)
			if err != nil {
				return nil, err
			}
			// Resubmit the original credentials carrying the passed
			// challenge's id.
			challengeID = id

		case api.OutcomeMFA:
			if mfaAttempted {
				// A second MFA demand after a code was attached means the
				// code was rejected. Single attempt modeled.
				c.metricInc(MetricMFAFailure)
				c.auditEmit(ctx, audit.EventMFA, false, nil, map[string]string{"mfa_type": outcome.MFAType})
				return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
			}
			c.metricInc(MetricMFARequired)
			code, err := c.challenges.ReadCode(ctx, "MFA code ("+outcome.MFAType+")")
			if err != nil {
				return nil, wrapRequestErr("mfa code read", err)
			}
			req.MFACode = code
			mfaAttempted = true

		case api.OutcomeTokens:
			if mfaAttempted {
				c.metricInc(MetricMFASuccess)
				c.auditEmit(ctx, audit.EventMFA, true, nil, nil)
			}
			next := &session.Session{}
			next.SetTokens("Bearer "+outcome.AccessToken, outcome.RefreshToken)

			account, err := c.fetchAccount(ctx, next.AccessToken)
			if err != nil {
				return nil, err
			}
			next.SetAccount(account.AccountNumber, account.URL)
			return next, nil
		}
	}
}

// resolveChallenge prompts for and submits challenge response codes until
// the server accepts one or the attempt budget is exhausted. Returns the
// passed challenge's id.
func (c *Client) resolveChallenge(ctx context.Context, ch *api.Challenge) (string, error) {
	for {
		code, err := c.challenges.ReadCode(ctx, "Challenge code")
		if err != nil {
			return "", wrapRequestErr("challenge code read", err)
		}

		resp, err := c.transport.PostJSON(ctx, api.PathChallengeRespond(ch.ID), api.ChallengeRespondRequest{Response: code}, nil)
		if err != nil {
			return "", wrapRequestErr("challenge respond", err)
		}

		result, decodeErr := api.DecodeChallengeRespond(resp.Body)
		if resp.OK() && decodeErr == nil && result.Challenge == nil && result.ID != "" {
			c.metricInc(MetricChallengeResolved)
			c.auditEmit(ctx, audit.EventChallenge, true, nil, map[string]string{"challenge_id": result.ID})
			return result.ID, nil
		}

		// Rejected. The server reports the remaining budget inside the
		// echoed challenge object; fall back to local bookkeeping when the
		// body carries none.
		if decodeErr == nil && result.Challenge != nil {
			ch = result.Challenge
		} else {
			ch.RemainingAttempts--
		}

		if ch.RemainingAttempts <= 0 {
			c.metricInc(MetricChallengeFailed)
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
			c.auditEmit(ctx, audit.EventChallenge, false, apiErr, map[string]string{"challenge_id": ch.ID})
			return "", apiErr
		}
	}
}

// fetchAccount validates a bearer token against the live API and returns
// the account adopted by the session.
func (c *Client) fetchAccount(ctx context.Context, bearer string) (*api.Account, error) {
	headers := http.Header{}
	headers.Set("Authorization", bearer)

	resp, err := c.transport.Get(ctx, api.PathAccounts, headers)
	if err != nil {
		return nil, wrapRequestErr("accounts", err)
	}
	if !resp.OK() {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	account, err := api.DecodeAccounts(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return account, nil
}

func (c *Client) countErrorKind(err error) {
	switch err.(type) {
	case *APIError:
		c.metricInc(MetricAPIError)
	case *RequestError:
		c.metricInc(MetricRequestError)
	}
}
