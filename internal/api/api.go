// Package api defines the provider's wire contract: endpoint paths,
// request payloads, and response decoding. The login endpoint answers one
// of four shapes (tokens, challenge, MFA prompt, error); decoding resolves
// them as a tagged union with a fixed discriminant order rather than by
// probing loose maps.
package api

import (
	"encoding/json"
	"errors"
	"net/url"
)

// Endpoint paths, relative to the configured base URL. The provider
// requires the trailing slash.
const (
	PathLogin    = "/login/"
	PathLogout   = "/logout/"
	PathAccounts = "/accounts/"
)

// HeaderChallengeResponseID carries the id of a passed device challenge
// when credentials are resubmitted.
const HeaderChallengeResponseID = "X-Challenge-Response-ID"

// PathChallengeRespond returns the challenge-response endpoint scoped to
// one challenge id.
func PathChallengeRespond(challengeID string) string {
	return "/challenge/" + url.PathEscape(challengeID) + "/respond/"
}

// GrantTypePassword and GrantTypeRefreshToken select the credential kind
// submitted to the login endpoint.
const (
	GrantTypePassword     = "password"
	GrantTypeRefreshToken = "refresh_token"
)

// LoginRequest is the body of POST /login/ for every grant type.
// Zero-valued optional fields are omitted from the encoded body.
type LoginRequest struct {
	GrantType     string `json:"grant_type"`
	Scope         string `json:"scope,omitempty"`
	ClientID      string `json:"client_id,omitempty"`
	DeviceToken   string `json:"device_token,omitempty"`
	ExpiresIn     int64  `json:"expires_in,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	ChallengeType string `json:"challenge_type,omitempty"`
	MFACode       string `json:"mfa_code,omitempty"`
	RefreshToken  string `json:"refresh_token,omitempty"`
}

// Challenge is the server-issued device challenge. It exists only for the
// duration of one login attempt.
type Challenge struct {
	ID                string `json:"id"`
	RemainingAttempts int    `json:"remaining_attempts"`
}

// LoginOutcomeKind discriminates the login response union.
type LoginOutcomeKind uint8

const (
	// OutcomeTokens means the response carried a token pair directly.
	OutcomeTokens LoginOutcomeKind = iota
	// OutcomeChallenge means a device challenge must be passed first.
	OutcomeChallenge
	// OutcomeMFA means an MFA code must be attached and resubmitted.
	OutcomeMFA
)

// LoginOutcome is the decoded login response. Exactly the fields implied
// by Kind are populated.
type LoginOutcome struct {
	Kind LoginOutcomeKind

	AccessToken  string
	RefreshToken string

	Challenge *Challenge

	MFAType string
}

// ErrUnrecognizedPayload is returned when a 2xx login response matches
// none of the union arms.
var ErrUnrecognizedPayload = errors.New("unrecognized login response payload")

// DecodeLoginResponse resolves the login union. Discriminant order is
// fixed: challenge presence, then the MFA flag, then token fields.
func DecodeLoginResponse(body []byte) (*LoginOutcome, error) {
	var payload struct {
		Challenge    *Challenge `json:"challenge"`
		MFARequired  bool       `json:"mfa_required"`
		MFAType      string     `json:"mfa_type"`
		AccessToken  string     `json:"access_token"`
		RefreshToken string     `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	switch {
	case payload.Challenge != nil:
		if payload.Challenge.ID == "" {
			return nil, ErrUnrecognizedPayload
		}
		return &LoginOutcome{Kind: OutcomeChallenge, Challenge: payload.Challenge}, nil
	case payload.MFARequired:
		return &LoginOutcome{Kind: OutcomeMFA, MFAType: payload.MFAType}, nil
	case payload.AccessToken != "" && payload.RefreshToken != "":
		return &LoginOutcome{
			Kind:         OutcomeTokens,
			AccessToken:  payload.AccessToken,
			RefreshToken: payload.RefreshToken,
		}, nil
	default:
		return nil, ErrUnrecognizedPayload
	}
}

// ChallengeRespondRequest is the body of POST /challenge/{id}/respond/.
type ChallengeRespondRequest struct {
	Response string `json:"response"`
}

// ChallengeRespondResult acknowledges a passed challenge by echoing its
// id. A rejected response instead carries the challenge object again with
// a decremented attempt budget.
type ChallengeRespondResult struct {
	ID        string     `json:"id"`
	Challenge *Challenge `json:"challenge"`
}

// DecodeChallengeRespond parses either arm of the respond result.
func DecodeChallengeRespond(body []byte) (*ChallengeRespondResult, error) {
	var result ChallengeRespondResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Account is one entry of the accounts listing.
type Account struct {
	URL           string `json:"url"`
	AccountNumber string `json:"account_number"`
}

// AccountsResponse is the body of GET /accounts/. The first result is the
// account adopted by the session.
type AccountsResponse struct {
	Results []Account `json:"results"`
}

// ErrNoAccounts is returned when the accounts listing is empty.
var ErrNoAccounts = errors.New("accounts response contains no results")

// DecodeAccounts parses the accounts listing and returns the first entry.
func DecodeAccounts(body []byte) (*Account, error) {
	var resp AccountsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoAccounts
	}
	return &resp.Results[0], nil
}

// LogoutRequest invalidates the server-side refresh grant.
type LogoutRequest struct {
	ClientID string `json:"client_id,omitempty"`
	Token    string `json:"token"`
}
