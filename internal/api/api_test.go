package api

import (
	"errors"
	"testing"
)

func TestDecodeLoginResponseTokens(t *testing.T) {
	outcome, err := DecodeLoginResponse([]byte(`{"access_token":"a","refresh_token":"r"}`))
	if err != nil {
		t.Fatalf("DecodeLoginResponse failed: %v", err)
	}
	if outcome.Kind != OutcomeTokens {
		t.Fatalf("expected tokens outcome, got %v", outcome.Kind)
	}
	if outcome.AccessToken != "a" || outcome.RefreshToken != "r" {
		t.Fatalf("token fields not carried: %+v", outcome)
	}
}

func TestDecodeLoginResponseChallengeWinsOverTokens(t *testing.T) {
	body := []byte(`{"challenge":{"id":"abcdef","remaining_attempts":3},"access_token":"a","refresh_token":"r"}`)
	outcome, err := DecodeLoginResponse(body)
	if err != nil {
		t.Fatalf("DecodeLoginResponse failed: %v", err)
	}
	if outcome.Kind != OutcomeChallenge {
		t.Fatalf("challenge must win the discriminant order, got %v", outcome.Kind)
	}
	if outcome.Challenge.ID != "abcdef" || outcome.Challenge.RemainingAttempts != 3 {
		t.Fatalf("challenge fields not carried: %+v", outcome.Challenge)
	}
}

func TestDecodeLoginResponseMFAWinsOverTokens(t *testing.T) {
	body := []byte(`{"mfa_required":true,"mfa_type":"sms","access_token":"a","refresh_token":"r"}`)
	outcome, err := DecodeLoginResponse(body)
	if err != nil {
		t.Fatalf("DecodeLoginResponse failed: %v", err)
	}
	if outcome.Kind != OutcomeMFA {
		t.Fatalf("the MFA flag must win over token fields, got %v", outcome.Kind)
	}
	if outcome.MFAType != "sms" {
		t.Fatalf("mfa type not carried: %q", outcome.MFAType)
	}
}

func TestDecodeLoginResponseUnrecognized(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"access_token":"a"}`,
		`{"refresh_token":"r"}`,
		`{"challenge":{"remaining_attempts":3}}`,
	} {
		if _, err := DecodeLoginResponse([]byte(body)); !errors.Is(err, ErrUnrecognizedPayload) {
			t.Fatalf("body %s: expected ErrUnrecognizedPayload, got %v", body, err)
		}
	}
}

func TestDecodeLoginResponseMalformedJSON(t *testing.T) {
	if _, err := DecodeLoginResponse([]byte(`{`)); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestPathChallengeRespondEscapesID(t *testing.T) {
	if got := PathChallengeRespond("abcdef"); got != "/challenge/abcdef/respond/" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := PathChallengeRespond("a/b"); got != "/challenge/a%2Fb/respond/" {
		t.Fatalf("id not escaped: %q", got)
	}
}

func TestDecodeChallengeRespondArms(t *testing.T) {
	passed, err := DecodeChallengeRespond([]byte(`{"id":"abcdef"}`))
	if err != nil {
		t.Fatalf("DecodeChallengeRespond failed: %v", err)
	}
	if passed.ID != "abcdef" || passed.Challenge != nil {
		t.Fatalf("unexpected passed arm: %+v", passed)
	}

	rejected, err := DecodeChallengeRespond([]byte(`{"challenge":{"id":"abcdef","remaining_attempts":2}}`))
	if err != nil {
		t.Fatalf("DecodeChallengeRespond failed: %v", err)
	}
	if rejected.Challenge == nil || rejected.Challenge.RemainingAttempts != 2 {
		t.Fatalf("unexpected rejected arm: %+v", rejected)
	}
}

func TestDecodeAccountsFirstResult(t *testing.T) {
	body := []byte(`{"results":[{"url":"u1","account_number":"n1"},{"url":"u2","account_number":"n2"}]}`)
	account, err := DecodeAccounts(body)
	if err != nil {
		t.Fatalf("DecodeAccounts failed: %v", err)
	}
	if account.URL != "u1" || account.AccountNumber != "n1" {
		t.Fatalf("expected the first result, got %+v", account)
	}
}

func TestDecodeAccountsEmpty(t *testing.T) {
	if _, err := DecodeAccounts([]byte(`{"results":[]}`)); !errors.Is(err, ErrNoAccounts) {
		t.Fatalf("expected ErrNoAccounts, got %v", err)
	}
}
