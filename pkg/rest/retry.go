package rest

import (
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryPolicy controls how HTTPClient retries failed requests.
// The zero value disables retries.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Values below 2 disable retries.
	MaxAttempts int

	// BaseDelay is the delay before the first retry. Each further retry
	// doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the per-retry delay. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries twice with a 250ms base delay capped at 5s.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   250 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// enabled reports whether the policy allows more than one attempt.
func (p RetryPolicy) enabled() bool {
	return p.MaxAttempts > 1
}

// backoff returns the delay before the retry following attempt
// (0 = first attempt). Half the delay is fixed, half randomized.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		return 0
	}
	return d/2 + rand.N(d/2+1)
}

// retryableStatus reports whether a status code is worth retrying.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
