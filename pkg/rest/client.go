package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "restbind-go"
)

// Client is the transport contract the binding layer drives. Bodies are
// JSON-encoded by the implementation; responses are returned as raw JSON.
// Implementations must be safe for concurrent use.
type Client interface {
	// Get issues a read for the given path.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Post issues a create with body encoded as JSON.
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Put issues a replace with body encoded as JSON.
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// HTTPClient implements Client over net/http.
// Create instances with New; the zero value is not usable.
type HTTPClient struct {
	base      *url.URL
	http      *http.Client
	headers   map[string]string
	userAgent string
	retry     RetryPolicy
	logger    *slog.Logger
}

// New creates an HTTPClient for the given base URL. The URL must carry a
// scheme and host; a path prefix is allowed and prepended to request paths.
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("rest: base URL %q must include scheme and host", baseURL)
	}

	c := &HTTPClient{
		base:      u,
		http:      &http.Client{Timeout: defaultTimeout},
		headers:   make(map[string]string),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET for the given path.
func (c *HTTPClient) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with body encoded as JSON.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, data)
}

// Put issues a PUT with body encoded as JSON.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, data)
}

// encodeBody marshals body once so retries replay identical bytes.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("rest: encoding request body: %w", err)
	}
	return data, nil
}

// do runs the request with the configured retry policy. Network failures
// and retryable statuses are attempted again; everything else returns the
// first error.
func (c *HTTPClient) do(ctx context.Context, method, reqPath string, body []byte) (json.RawMessage, error) {
	urlStr := c.buildURL(reqPath)

	attempts := 1
	if c.retry.enabled() {
		attempts = c.retry.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.debugLog("retrying request",
				"method", method, "url", urlStr, "attempt", attempt+1)

			timer := time.NewTimer(c.retry.backoff(attempt - 1))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}

		raw, retryable, err := c.attempt(ctx, method, urlStr, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// attempt runs a single HTTP exchange. The bool return reports whether the
// failure is worth retrying.
func (c *HTTPClient) attempt(ctx context.Context, method, urlStr string, body []byte) (json.RawMessage, bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, false, fmt.Errorf("rest: building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// Transport-level failure, possibly transient.
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("rest: reading response body: %w", err)
	}

	c.debugLog("request completed",
		"method", method,
		"url", urlStr,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retryableStatus(resp.StatusCode), &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}
	}
	return json.RawMessage(data), false, nil
}

// buildURL joins the request path onto the base URL. Paths are treated as
// request-URI form, so percent-escaped segments pass through intact.
func (c *HTTPClient) buildURL(reqPath string) string {
	u := *c.base
	joined := path.Join("/", u.EscapedPath(), reqPath)

	u.RawPath = ""
	if unescaped, err := url.PathUnescape(joined); err == nil {
		u.Path = unescaped
		if unescaped != joined {
			u.RawPath = joined
		}
	} else {
		u.Path = joined
	}
	return u.String()
}

// debugLog logs at debug level when a logger is configured.
func (c *HTTPClient) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// Compile-time interface satisfaction check.
var _ Client = (*HTTPClient)(nil)
