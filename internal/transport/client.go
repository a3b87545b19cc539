package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication and the
// batch header applied to every request.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL string
	batch   atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithAuthenticator sets how requests are authenticated.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a transport client for the service at baseURL. Batch mode
// starts on.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    newHTTPClient(DefaultHTTPTimeout),
		auth:    &NoAuth{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	c.batch.Store(true)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetBatchMode switches the batch header between "1" and "0".
func (c *Client) SetBatchMode(on bool) {
	c.batch.Store(on)
}

// BatchMode reports the current batch flag.
func (c *Client) BatchMode() bool {
	return c.batch.Load()
}

// NewRequest builds a request for path below the base URL. A non-nil body is
// encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", method+" "+path, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+path, err)
	}
	return req, nil
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.auth.Apply(req.Context(), req); err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.batch.Load() {
		req.Header.Set(constants.BatchHeader, "1")
	} else {
		req.Header.Set(constants.BatchHeader, "0")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Service:  serviceName,
			Endpoint: req.Method + " " + req.URL.Path,
			Message:  err.Error(),
			Err:      err,
		}
	}
	return resp, nil
}

// Send builds and performs a request in one step.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Send(ctx, http.MethodGet, path, nil)
}
