// Package api wraps the lending backend's REST API.
//
// Every backend reply uses the same envelope:
//
//	{ "success": true, "data": ..., "message": "Category created" }
//
// Client does the HTTP and envelope plumbing once. Resource[T] adds the
// list/get/create/update/toggle calls each collection shares, so the
// console never builds URLs or decodes envelopes by hand.
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

	"github.com/aanand-mishra/tool-lending-admin/internal/requestctx"
)

// Envelope is the shape of every backend response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Client talks JSON to the backend. A single Client is safe for
// concurrent use.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL,
// e.g. "http://localhost:3000/api".
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api.NewClient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api.NewClient: base url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get fetches path with query and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (string, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the envelope data into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) (string, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON and decodes the envelope data into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) (string, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete removes the record at path. The console soft deletes through
// Resource.SetActive; Delete is the plain REST verb for hard removals.
func (c *Client) Delete(ctx context.Context, path string, out any) (string, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do sends one request and decodes the envelope's data into out (which
// may be nil). It returns the envelope message so callers can echo the
// backend's wording in toasts.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (string, error) {
	target := c.resolve(path, query)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := requestctx.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	var env Envelope[json.RawMessage]
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return msg, &APIError{Status: resp.StatusCode, Message: msg, Method: method, Path: path}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%s %s: decode envelope: %w", method, path, decodeErr)
	}
	if !env.Success {
		// A 2xx with success=false is how the backend reports rejected input.
		return env.Message, &APIError{Status: http.StatusBadRequest, Message: env.Message, Method: method, Path: path}
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return env.Message, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// StatusOf returns the backend status carried by err, or 0 when err did
// not come from a backend reply (transport failures, decode errors).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
