package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures an HTTPClient. Options are applied in the order given.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the request timeout. The configured *http.Client is
// copied, so a client shared via WithHTTPClient is not mutated.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *HTTPClient) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithHeader adds a single header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		c.headers[key] = value
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithRetryPolicy enables retries according to p.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *HTTPClient) {
		c.retry = p
	}
}

// WithLogger enables debug logging of requests and retries.
// A nil logger disables logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}
