package resttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	backend := NewServer()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestServerListOrder(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Seed("/api/todos",
		map[string]any{"title": "first"},
		map[string]any{"title": "second"},
		map[string]any{"title": "third"},
	)

	var list []map[string]any
	status := getJSON(t, srv.URL+"/api/todos", &list)
	if status != http.StatusOK {
		t.Fatalf("status: got %d, want 200", status)
	}
	if len(list) != 3 {
		t.Fatalf("records: got %d, want 3", len(list))
	}

	wantTitles := []string{"first", "second", "third"}
	for i, rec := range list {
		if rec["title"] != wantTitles[i] {
			t.Errorf("record %d title: got %v, want %q", i, rec["title"], wantTitles[i])
		}
		if rec["id"] != float64(i+1) {
			t.Errorf("record %d id: got %v, want %d", i, rec["id"], i+1)
		}
	}
}

func TestServerRead(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Seed("/api/todos", map[string]any{"title": "only"})

	var rec map[string]any
	status := getJSON(t, srv.URL+"/api/todos/1", &rec)
	if status != http.StatusOK {
		t.Fatalf("status: got %d, want 200", status)
	}
	if rec["title"] != "only" {
		t.Errorf("title: got %v, want %q", rec["title"], "only")
	}

	status = getJSON(t, srv.URL+"/api/todos/99", nil)
	if status != http.StatusNotFound {
		t.Errorf("missing record status: got %d, want 404", status)
	}
}

func TestServerCreate(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Resource("/api/todos")

	resp, err := http.Post(srv.URL+"/api/todos", "application/json",
		strings.NewReader(`{"title":"new"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", resp.StatusCode)
	}

	var rec map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if rec["id"] != float64(1) {
		t.Errorf("assigned id: got %v, want 1", rec["id"])
	}

	if got := len(backend.Records("/api/todos")); got != 1 {
		t.Errorf("stored records: got %d, want 1", got)
	}
}

func TestServerCreateKeepsProvidedID(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Resource("/api/todos")

	resp, err := http.Post(srv.URL+"/api/todos", "application/json",
		strings.NewReader(`{"id":"custom-9","title":"x"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	recs := backend.Records("/api/todos")
	if len(recs) != 1 {
		t.Fatalf("stored records: got %d, want 1", len(recs))
	}
	if recs[0]["id"] != "custom-9" {
		t.Errorf("id: got %v, want custom-9", recs[0]["id"])
	}
}

func TestServerReplace(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Seed("/api/todos", map[string]any{"title": "old", "done": false})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/todos/1",
		strings.NewReader(`{"id":1,"title":"new","done":true}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	recs := backend.Records("/api/todos")
	if recs[0]["title"] != "new" || recs[0]["done"] != true {
		t.Errorf("record not replaced: %v", recs[0])
	}
}

func TestServerReplaceMissing(t *testing.T) {
	_, srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/todos/1",
		strings.NewReader(`{}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestServerUnknownResource(t *testing.T) {
	_, srv := newTestServer(t)

	status := getJSON(t, srv.URL+"/api/missing", nil)
	if status != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", status)
	}
}

func TestServerInvalidJSON(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Resource("/api/todos")

	resp, err := http.Post(srv.URL+"/api/todos", "application/json",
		strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestServerNestedResourcePaths(t *testing.T) {
	backend, srv := newTestServer(t)
	backend.Seed("/api/v2/users", map[string]any{"name": "ada"})

	var list []map[string]any
	status := getJSON(t, srv.URL+"/api/v2/users", &list)
	if status != http.StatusOK || len(list) != 1 {
		t.Fatalf("list: status %d, %d records", status, len(list))
	}

	var rec map[string]any
	status = getJSON(t, srv.URL+"/api/v2/users/1", &rec)
	if status != http.StatusOK {
		t.Fatalf("read status: got %d, want 200", status)
	}
	if rec["name"] != "ada" {
		t.Errorf("name: got %v, want ada", rec["name"])
	}
}

func TestIDString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{float64(7), "7"},
		{float64(7.5), "7.5"},
		{"abc", "abc"},
		{json.Number("42"), "42"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := idString(tc.in); got != tc.want {
			t.Errorf("idString(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
