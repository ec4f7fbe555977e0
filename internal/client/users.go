// Package client fetches the users list from the upstream HTTP endpoint.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"userfeed/internal/model"
)

// Result is a decoded response along with the raw body it came from.
type Result struct {
	Users      []model.User
	Body       []byte
	StatusCode int
}

// UserClient issues a single users request per call.
type UserClient interface {
	FetchUsers(ctx context.Context) (*Result, error)
}

// HTTPClient is a UserClient over net/http. It is safe for concurrent use.
type HTTPClient struct {
	endpoint string
	hc       *http.Client
}

var _ UserClient = (*HTTPClient)(nil)

// New builds a client for endpoint. A zero timeout keeps the platform default.
// The endpoint is validated on each request, not here.
func New(endpoint string, timeout time.Duration) *HTTPClient {
	return NewWithHTTPClient(endpoint, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	})
}

// NewWithHTTPClient uses hc as is.
func NewWithHTTPClient(endpoint string, hc *http.Client) *HTTPClient {
	return &HTTPClient{endpoint: endpoint, hc: hc}
}

// ParseEndpoint validates an absolute http(s) URL.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidEndpoint)
	}
	return u, nil
}

// FetchUsers performs one GET with no headers and decodes a 2xx body strictly.
func (c *HTTPClient) FetchUsers(ctx context.Context) (*Result, error) {
	u, err := ParseEndpoint(c.endpoint)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	env, err := model.DecodeUserList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &Result{Users: env.Users, Body: body, StatusCode: resp.StatusCode}, nil
}
