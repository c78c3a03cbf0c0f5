package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New("://bad")
	require.Error(t, err)

	_, err = New("just-a-path")
	require.Error(t, err)

	_, err = New("https://api.example.com/v1")
	require.NoError(t, err)
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/items/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":7,"name":"seven"}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	raw, err := client.Get(context.Background(), "/items/7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"seven"}`, string(raw))
}

func TestClientPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"new"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":1,"name":"new"}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithHeader("Authorization", "Bearer token-1"))
	require.NoError(t, err)

	raw, err := client.Post(context.Background(), "/items", map[string]any{"name": "new"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"new"}`, string(raw))
}

func TestClientPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/items/3", r.URL.Path)
		io.WriteString(w, `{"id":3}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Put(context.Background(), "/items/3", map[string]any{"id": 3})
	require.NoError(t, err)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"no such item"}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/items/404")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se), "want *StatusError, got %T", err)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.JSONEq(t, `{"error":"no such item"}`, string(se.Body))
	assert.Contains(t, se.Error(), "404")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithRetryPolicy(RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	}))
	require.NoError(t, err)

	raw, err := client.Get(context.Background(), "/flaky")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRetryReplaysBody(t *testing.T) {
	var bodies []string
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithRetryPolicy(RetryPolicy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
	}))
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/items", map[string]any{"name": "x"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1], "retry must replay identical bytes")
}

func TestClientNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/down")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientNoRetryOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithRetryPolicy(DefaultRetryPolicy))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/bad")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestClientRetryHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithRetryPolicy(RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Hour,
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := client.Get(ctx, "/slow")
		errc <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Get did not return after cancellation")
	}
}

func TestClientBasePathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/items", r.URL.Path)
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client, err := New(srv.URL + "/v2")
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/items")
	require.NoError(t, err)
}

func TestClientEscapedPathSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/a%2Fb", r.URL.EscapedPath())
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/items/a%2Fb")
	require.NoError(t, err)
}

func TestClientEmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	raw, err := client.Put(context.Background(), "/items/1", map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestClientEncodeBodyError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/items", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load(), "encode failure must not reach the server")
}
