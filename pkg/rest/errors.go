package rest

import "fmt"

// maxErrorBodyLen bounds how much of a response body Error reproduces.
const maxErrorBodyLen = 200

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the full status line, e.g. "404 Not Found".
	Status string

	// Body is the raw response body, useful for decoding server error
	// envelopes. May be empty.
	Body []byte
}

// Error returns the status line and a bounded prefix of the body.
func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("rest: server returned %s", e.Status)
	}
	body := e.Body
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}
	return fmt.Sprintf("rest: server returned %s: %s", e.Status, body)
}
