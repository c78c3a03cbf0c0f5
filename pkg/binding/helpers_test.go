package binding

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/restbind/restbind-go/pkg/attrs"
	"github.com/restbind/restbind-go/pkg/rest"
	"github.com/restbind/restbind-go/pkg/synclog"
)

// fakeClient scripts remote responses. The respond function runs for every
// call; tests that need to coordinate overlapping operations block inside it.
type fakeClient struct {
	mu      sync.Mutex
	calls   []fakeCall
	respond func(method, path string, body attrs.Map) (json.RawMessage, error)
}

type fakeCall struct {
	method string
	path   string
	body   attrs.Map
}

var _ rest.Client = (*fakeClient)(nil)

func newFakeClient(respond func(method, path string, body attrs.Map) (json.RawMessage, error)) *fakeClient {
	return &fakeClient{respond: respond}
}

// respondJSON scripts the same JSON payload for every call.
func respondJSON(payload string) func(string, string, attrs.Map) (json.RawMessage, error) {
	return func(string, string, attrs.Map) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	}
}

// respondErr scripts the same failure for every call.
func respondErr(err error) func(string, string, attrs.Map) (json.RawMessage, error) {
	return func(string, string, attrs.Map) (json.RawMessage, error) {
		return nil, err
	}
}

func (f *fakeClient) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return f.call("GET", path, nil)
}

func (f *fakeClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.call("POST", path, toMap(body))
}

func (f *fakeClient) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.call("PUT", path, toMap(body))
}

func (f *fakeClient) call(method, path string, body attrs.Map) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{method: method, path: path, body: body})
	f.mu.Unlock()
	return f.respond(method, path, body)
}

// Calls returns a snapshot of the recorded calls in arrival order.
func (f *fakeClient) Calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func toMap(body any) attrs.Map {
	m, _ := body.(attrs.Map)
	return m
}

// memoryJournal collects synclog events in memory.
type memoryJournal struct {
	mu     sync.Mutex
	events []synclog.Event
}

var _ synclog.Logger = (*memoryJournal)(nil)

func (j *memoryJournal) Log(ev synclog.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
}

func (j *memoryJournal) Events() []synclog.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]synclog.Event, len(j.events))
	copy(out, j.events)
	return out
}
