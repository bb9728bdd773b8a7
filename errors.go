package goBroker

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
)

var (
	// ErrUninitialized is returned when an operation requires a configured
	// transport and the client was built without one.
	ErrUninitialized = errors.New("client transport not initialized")
	// ErrUnauthenticated is returned when an operation requires an active
	// session and the client does not hold one.
	ErrUnauthenticated = errors.New("client not authenticated")
)

// APIError is returned when the server answered with a non-2xx status.
// It carries the status code and the raw response body for caller
// inspection. API errors are never retried by this package.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// RequestError is returned when the request never produced a server
// response: timeout, connection refused, TLS certificate validation
// failure. The underlying transport error is available via [errors.Unwrap].
// Request errors are never retried by this package.
type RequestError struct {
	Op    string
	Cause error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error: %s: %v", e.Op, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the wrapped cause is a timeout.
func (e *RequestError) Timeout() bool {
	if e == nil {
		return false
	}
	if errors.Is(e.Cause, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(e.Cause, &nerr) && nerr.Timeout()
}

// CertificateInvalid reports whether the wrapped cause is a TLS
// certificate validation failure.
func (e *RequestError) CertificateInvalid() bool {
	if e == nil {
		return false
	}
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
	)
	return errors.As(e.Cause, &unknownAuthority) ||
		errors.As(e.Cause, &hostname) ||
		errors.As(e.Cause, &invalid)
}

// wrapRequestErr classifies a kind-agnostic transport failure into a
// *RequestError. The transport layer never sees the taxonomy; wrapping
// happens here, at the state-machine boundary.
func wrapRequestErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RequestError{Op: op, Cause: err}
}
