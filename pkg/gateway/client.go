package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
	"github.com/noah-isme/schedule-sync/pkg/middleware/requestid"
)

// TokenSource yields the access token at call time. Implementations must be safe for concurrent use.
type TokenSource interface {
	AccessToken() string
}

// Observer records per-call latency.
type Observer interface {
	ObserveGatewayRequest(host, method string, status int, duration time.Duration)
}

// Client is a thin JSON-over-HTTP wrapper around one base endpoint.
// An authenticated client always sends the Authorization header: "Bearer <token>" when a token
// is stored and an empty value otherwise. A client built without a TokenSource sends none.
type Client struct {
	base     *url.URL
	http     *http.Client
	tokens   TokenSource
	logger   *zap.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource makes the client attach bearer authorization to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a latency observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a client rooted at baseURL. The base URL is fixed for the client's lifetime.
func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:   base,
		http:   &http.Client{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the endpoint this client targets.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. Any transport error or non-2xx status is returned as *errors.Error;
// there is no retry and no timeout beyond ctx.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	target, err := c.resolve(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "invalid request path")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		req.Header.Set("Authorization", authorization(c.tokens.AccessToken()))
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(method, 0, duration)
		c.logger.Debug("gateway request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status,
			fmt.Sprintf("%s %s failed", method, req.URL.Path))
	}
	defer resp.Body.Close() //nolint:errcheck

	c.observe(method, resp.StatusCode, duration)
	c.logger.Debug("gateway request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	return nil
}

func authorization(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) observe(method string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveGatewayRequest(c.base.Host, method, status, d)
}

// statusError carries the upstream status and, when the body is a JSON object with a
// message, that message.
func statusError(status int, raw []byte) error {
	message := fmt.Sprintf("remote call returned status %d", status)
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Message) > 0 {
		var single string
		var many []string
		switch {
		case json.Unmarshal(payload.Message, &single) == nil && single != "":
			message = single
		case json.Unmarshal(payload.Message, &many) == nil && len(many) > 0:
			message = strings.Join(many, "; ")
		}
	}
	return &appErrors.Error{
		Code:    appErrors.ErrUpstreamStatus.Code,
		Message: message,
		Status:  status,
	}
}
