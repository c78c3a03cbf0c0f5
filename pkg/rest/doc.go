// Package rest provides the remote transport the binding layer drives.
//
// The binding layer depends only on the Client interface: three verbs over
// resource paths with JSON bodies. HTTPClient is the production
// implementation; tests and embedders can substitute their own.
//
// # Usage
//
//	client, err := rest.New("https://api.example.com",
//	    rest.WithHeader("Authorization", "Bearer "+token),
//	    rest.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	raw, err := client.Get(ctx, "/items/7")
//
// Request paths are resolved against the configured base URL, so a client
// built for "https://api.example.com/v2" and a path "/items/7" request
// "https://api.example.com/v2/items/7".
//
// # Errors
//
// Responses outside the 2xx range return *StatusError carrying the status
// code and response body. Transport failures are returned as-is. Callers
// use errors.As to branch on status:
//
//	var se *rest.StatusError
//	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
//	    ...
//	}
//
// # Retries
//
// A RetryPolicy makes the client retry network failures and 429/5xx
// responses with exponential backoff. Request bodies are buffered before
// the first attempt, so every retry replays identical bytes. The zero
// policy disables retries; DefaultRetryPolicy is a sane starting point.
// Timeouts, retries and cancellation all live at this layer: the binding
// layer above issues exactly one logical call per operation.
package rest
