package goBroker

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 400, Body: []byte(`{"detail":"bad"}`)}
	msg := err.Error()
	if !strings.Contains(msg, "400") || !strings.Contains(msg, "bad") {
		t.Fatalf("message must carry status and body, got %q", msg)
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := wrapRequestErr("login", fmt.Errorf("wrapped: %w", cause))
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause in the chain, got %v", err)
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Op != "login" {
		t.Fatalf("expected op login, got %q", reqErr.Op)
	}
}

func TestWrapRequestErrNil(t *testing.T) {
	if err := wrapRequestErr("login", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequestErrorTimeoutClassification(t *testing.T) {
	err := &RequestError{Op: "login", Cause: fmt.Errorf("do: %w", os.ErrDeadlineExceeded)}
	if !err.Timeout() {
		t.Fatal("deadline cause must classify as a timeout")
	}
	if err.CertificateInvalid() {
		t.Fatal("deadline cause must not classify as a certificate failure")
	}
}

func TestRequestErrorCertificateClassification(t *testing.T) {
	for _, cause := range []error{
		x509.UnknownAuthorityError{},
		x509.HostnameError{Host: "broker.invalid"},
		x509.CertificateInvalidError{Reason: x509.Expired},
	} {
		err := &RequestError{Op: "login", Cause: fmt.Errorf("do: %w", cause)}
		if !err.CertificateInvalid() {
			t.Fatalf("cause %T must classify as a certificate failure", cause)
		}
		if err.Timeout() {
			t.Fatalf("cause %T must not classify as a timeout", cause)
		}
	}
}

func TestRequestErrorPlainCause(t *testing.T) {
	err := &RequestError{Op: "login", Cause: errors.New("connection refused")}
	if err.Timeout() || err.CertificateInvalid() {
		t.Fatal("a plain cause classifies as neither timeout nor certificate failure")
	}
}
