package goBroker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testAccess        = "access-token-1"
	testRefresh       = "refresh-token-1"
	testAccountNumber = "XY123"
	testAccountURL    = "https://api.example.com/accounts/XY123/"
)

func tokenBody(access, refresh string) string {
	return fmt.Sprintf(`{"access_token":%q,"refresh_token":%q}`, access, refresh)
}

func accountsBody() string {
	return fmt.Sprintf(`{"results":[{"url":%q,"account_number":%q}]}`, testAccountURL, testAccountNumber)
}

// fakeBroker scripts the provider endpoints and records everything the
// client sent for later assertions.
type fakeBroker struct {
	t  *testing.T
	mu sync.Mutex

	loginBodies    []map[string]any
	loginHeaders   []string
	respondCodes   []string
	logoutBodies   []map[string]any
	accountsCalls  int
	accountsTokens []string

	// login and respond script the responses per call index. A nil login
	// answers with a token pair; a nil respond accepts every code.
	login          func(call int, body map[string]any) (int, string)
	respond        func(call int, code string) (int, string)
	logoutStatus   int
	accountsStatus int
}

func newFakeBroker(t *testing.T) *fakeBroker {
	return &fakeBroker{t: t}
}

func (f *fakeBroker) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/login/":
			var decoded map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				f.t.Errorf("login body does not parse: %v", err)
			}
			call := len(f.loginBodies)
			f.loginBodies = append(f.loginBodies, decoded)
			f.loginHeaders = append(f.loginHeaders, r.Header.Get("X-Challenge-Response-ID"))

			status, resp := http.StatusOK, tokenBody(testAccess, testRefresh)
			if f.login != nil {
				status, resp = f.login(call, decoded)
			}
			w.WriteHeader(status)
			io.WriteString(w, resp)

		case strings.HasPrefix(r.URL.Path, "/challenge/") && strings.HasSuffix(r.URL.Path, "/respond/"):
			var decoded struct {
				Response string `json:"response"`
			}
			if err := json.Unmarshal(body, &decoded); err != nil {
				f.t.Errorf("challenge respond body does not parse: %v", err)
			}
			call := len(f.respondCodes)
			f.respondCodes = append(f.respondCodes, decoded.Response)

			status, resp := http.StatusOK, `{"id":"abcdef"}`
			if f.respond != nil {
				status, resp = f.respond(call, decoded.Response)
			}
			w.WriteHeader(status)
			io.WriteString(w, resp)

		case r.URL.Path == "/accounts/":
			f.accountsCalls++
			f.accountsTokens = append(f.accountsTokens, r.Header.Get("Authorization"))
			status := f.accountsStatus
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			if status == http.StatusOK {
				io.WriteString(w, accountsBody())
			} else {
				io.WriteString(w, `{"detail":"invalid token"}`)
			}

		case r.URL.Path == "/logout/":
			var decoded map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				f.t.Errorf("logout body does not parse: %v", err)
			}
			f.logoutBodies = append(f.logoutBodies, decoded)
			status := f.logoutStatus
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			io.WriteString(w, `{}`)

		default:
			f.t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeBroker) loginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loginBodies)
}

func (f *fakeBroker) loginBody(i int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.loginBodies) {
		f.t.Fatalf("login call %d never happened (%d total)", i, len(f.loginBodies))
	}
	return f.loginBodies[i]
}

func (f *fakeBroker) loginHeader(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.loginHeaders) {
		f.t.Fatalf("login call %d never happened (%d total)", i, len(f.loginHeaders))
	}
	return f.loginHeaders[i]
}

func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*Builder)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newClientFor(t, srv, mutate...)
}

func newClientFor(t *testing.T, srv *httptest.Server, mutate ...func(*Builder)) *Client {
	t.Helper()

	cfg := defaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = 2 * time.Second
	cfg.Session.FilePath = filepath.Join(t.TempDir(), "session.blob")

	builder := New().
		WithConfig(cfg).
		WithHTTPClient(srv.Client()).
		WithMetricsEnabled(true)
	for _, m := range mutate {
		m(builder)
	}

	client, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// seedSession puts the client directly into the authenticated state,
// bypassing the network flow.
func seedSession(c *Client, access, refresh string) {
	c.mu.Lock()
	c.sess.SetTokens("Bearer "+access, refresh)
	c.sess.SetAccount(testAccountNumber, testAccountURL)
	c.mu.Unlock()
}

// jwtWithExpiry builds an unsigned JWT-shaped token carrying only exp.
func jwtWithExpiry(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return header + "." + claims + ".x"
}

// scriptedReader feeds a fixed sequence of challenge/MFA codes.
type scriptedReader struct {
	mu    sync.Mutex
	codes []string
	reads int
}

func (r *scriptedReader) ReadCode(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reads >= len(r.codes) {
		return "", io.EOF
	}
	code := r.codes[r.reads]
	r.reads++
	return code, nil
}

// blockingReader never produces a code; it waits for ctx.
type blockingReader struct{}

func (blockingReader) ReadCode(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
