// Package api is a thin client for the recipe REST service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Makepad-fr/recipes/internal/defaults"
	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/model"
)

const (
	// DefaultUserAgent is sent unless overridden with WithUserAgent.
	DefaultUserAgent = "recipes-cli/1.0"
	// RequestIDHeader carries a per-request uuid for log correlation.
	RequestIDHeader = "X-Request-Id"

	maxErrorBody = 4 << 10
)

// Option configures a Client.
type Option func(*Client)

// Client issues the five REST calls the views need. It is safe for
// concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
}

// WithHTTPClient replaces the underlying *http.Client. A nil client keeps
// the default one. The client is never modified; WithTimeout applies to a
// copy.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the total per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithRateLimit throttles outbound calls to rps requests per second with
// the given burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient returns a client rooted at baseURL (trailing slashes are
// dropped).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.http == nil:
		timeout := defaults.HTTPClientTimeout
		if c.timeout > 0 {
			timeout = c.timeout
		}
		c.http = &http.Client{Timeout: timeout, Transport: newTransport()}
	case c.timeout > 0:
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
	}
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches the whole collection (GET /).
func (c *Client) List(ctx context.Context) ([]model.Recipe, error) {
	var out model.Collection
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	if out.Recipes == nil {
		out.Recipes = []model.Recipe{}
	}
	return out.Recipes, nil
}

// Get fetches one recipe (GET /:id).
func (c *Client) Get(ctx context.Context, id int) (model.Recipe, error) {
	var r model.Recipe
	err := c.do(ctx, http.MethodGet, path(id), nil, &r)
	return r, err
}

// Create posts a new recipe and returns the server's record (POST /).
func (c *Client) Create(ctx context.Context, in model.RecipeInput) (model.Recipe, error) {
	var r model.Recipe
	err := c.do(ctx, http.MethodPost, "/", in, &r)
	return r, err
}

// Update replaces a recipe (PUT /:id). The response body is ignored.
func (c *Client) Update(ctx context.Context, id int, in model.RecipeInput) error {
	return c.do(ctx, http.MethodPut, path(id), in, nil)
}

// Delete removes a recipe (DELETE /:id).
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, path(id), nil, nil)
}

func path(id int) string { return "/" + strconv.Itoa(id) }

func (c *Client) do(ctx context.Context, method, p string, body, out any) error {
	op := method + " " + p
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, op, err)
		}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "encode "+op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, rdr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("api request failed", "op", op, "request_id", reqID, "error", err)
		return transportError(op, err)
	}
	defer resp.Body.Close()

	slog.Debug("api request",
		"op", op,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "decode "+op, err,
			map[string]any{"request_id": reqID})
	}
	return nil
}

func transportError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, op, err)
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Wrap(errors.ErrCodeTimeout, op, err)
	}
	return errors.Wrap(errors.ErrCodeUnavailable, op, err)
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := serverMessage(b)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	code := errors.ErrCodeInternal
	switch {
	case resp.StatusCode == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		code = errors.ErrCodeInvalidRequest
	case resp.StatusCode == http.StatusTooManyRequests:
		code = errors.ErrCodeRateLimitExceeded
	case resp.StatusCode >= 500:
		code = errors.ErrCodeUnavailable
	}
	return errors.NewWithContext(code, fmt.Sprintf("%s: %s", op, msg),
		map[string]any{"status": resp.StatusCode})
}

// serverMessage pulls a human message out of a JSON or plain-text body.
func serverMessage(b []byte) string {
	var body struct {
		Description string `json:"description"`
		Message     string `json:"message"`
		Error       string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		for _, s := range []string{body.Description, body.Message, body.Error} {
			if s != "" {
				return s
			}
		}
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "<") {
		// HTML error pages carry nothing worth showing.
		return ""
	}
	return s
}
