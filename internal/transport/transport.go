// Package transport is the HTTP adapter consumed by the client state
// machine. It issues JSON requests with a bounded timeout and returns
// whatever error the net/http stack produced, unclassified: mapping
// failures onto the public error taxonomy is the caller's job.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is a fully drained HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues requests against a fixed base URL.
type Client struct {
	httpc     *http.Client
	base      *url.URL
	userAgent string
	timeout   time.Duration
}

// New builds a transport over the given http.Client. Every request is
// bounded by timeout unless the caller's context expires first.
func New(httpc *http.Client, baseURL, userAgent string, timeout time.Duration) (*Client, error) {
	if httpc == nil {
		return nil, errors.New("nil http client")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("base url must be absolute")
	}
	return &Client{
		httpc:     httpc,
		base:      base,
		userAgent: userAgent,
		timeout:   timeout,
	}, nil
}

// PostJSON sends payload as a JSON body to path.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, headers http.Header) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
}

// Get issues a GET against path.
func (c *Client) Get(ctx context.Context, path string, headers http.Header) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, headers)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers http.Header) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.base.JoinPath(path)
	// JoinPath escapes nothing the endpoint table didn't already escape,
	// but it drops a trailing slash the provider requires.
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
