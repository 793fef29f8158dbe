// Package api is the REST client for the Cool Save backend.
//
// Paths are relative to the configured base URL and must stay exactly as the
// server exposes them. Every non-2xx status is a failure; no call is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

const maxBody = 4 << 20

const (
	pathFood      = "api/food-products"
	pathRecipe    = "api/recipe"
	pathGenerate  = "api/recipe/generate"
	pathSensors   = "api/sensors/latest"
	pathHealth    = "health"
	headerReqID   = "X-Request-ID"
	contentTypeJS = "application/json"
)

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	transport http.RoundTripper
	timeout   time.Duration
	log       *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTransport replaces the base round tripper. It is still traced.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for baseURL. A missing trailing slash is added so the
// relative paths resolve under it.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: empty base URL")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		base:      u,
		transport: http.DefaultTransport,
		timeout:   DefaultTimeout,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	c.http = &http.Client{
		Transport: otelhttp.NewTransport(c.transport),
		Timeout:   c.timeout,
	}
	return c, nil
}

// BaseURL is the normalised base the client resolves paths against.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) url(path string) string {
	return c.base.JoinPath(path).String()
}

// itemURL addresses one entity. JoinPath cleans dot segments, so ids that
// would escape the collection are refused before any request is sent.
func (c *Client) itemURL(op, path, id string) (string, error) {
	switch esc := url.PathEscape(id); esc {
	case "", ".", "..":
		return "", fmt.Errorf("%s: %w %q", op, ErrInvalidID, id)
	default:
		return c.base.JoinPath(path, esc).String(), nil
	}
}

// do sends one request. body is JSON-encoded when non-nil; the raw response
// body is returned for 2xx statuses.
func (c *Client) do(ctx context.Context, op, method, target string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJS)
	req.Header.Set("Content-Type", contentTypeJS)
	req.Header.Set(headerReqID, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "op", op, "method", method, "url", target, "request_id", reqID, "err", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.log.Error("read response failed", "op", op, "request_id", reqID, "err", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	c.log.Debug("request done", "op", op, "method", method, "url", target,
		"status", resp.StatusCode, "request_id", reqID, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("unexpected status", "op", op, "status", resp.StatusCode, "request_id", reqID)
		return nil, &HTTPError{Op: op, Status: resp.StatusCode}
	}
	return data, nil
}

// decode parses data into out, failing with ErrMalformedPayload on mismatch.
func decode(op string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s: %w: empty body", op, ErrMalformedPayload)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	return nil
}

type validatable interface{ Validate() error }

func validateAll[T validatable](op string, items []T) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
		}
	}
	return nil
}
