package binding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/restbind/restbind-go/pkg/attrs"
	"github.com/restbind/restbind-go/pkg/event"
	"github.com/restbind/restbind-go/pkg/synclog"
)

// Entity binds one record's attribute state to a remote resource. Writes
// merge into the state and emit change; Fetch and Save synchronize with the
// remote record and report through events and the returned Op.
//
// An Entity is safe for concurrent use. Event handlers run one at a time in
// registration order within the goroutine that triggered them.
type Entity struct {
	*event.Emitter

	res   *Resource
	store *attrs.Store
}

// NewEntity creates an entity bound to the resource, seeded with a copy of
// initial. No change event fires for the seed state.
func (r *Resource) NewEntity(initial attrs.Map) *Entity {
	return &Entity{
		Emitter: event.NewEmitter(),
		res:     r,
		store:   attrs.NewStore(initial),
	}
}

// Get returns the value stored under key. The second result distinguishes
// an absent key from one holding a zero or nil value.
func (e *Entity) Get(key string) (any, bool) {
	return e.store.Get(key)
}

// Has reports whether key is present.
func (e *Entity) Has(key string) bool {
	return e.store.Has(key)
}

// Attributes returns a snapshot of the attribute state. Mutating it does
// not affect the entity.
func (e *Entity) Attributes() attrs.Map {
	return e.store.Snapshot()
}

// ID returns the identity attribute value, if present.
func (e *Entity) ID() (any, bool) {
	return e.store.Get(e.res.idKey)
}

// IsNew reports whether the entity has no identity attribute yet, which is
// what makes Save create rather than update.
func (e *Entity) IsNew() bool {
	return !e.store.Has(e.res.idKey)
}

// Set merges partial into the attribute state and emits a change event.
// Keys absent from partial keep their values. The event fires once per
// call, whether or not any value actually differs.
func (e *Entity) Set(partial attrs.Map) {
	e.store.Merge(partial)
	e.res.journalChange(synclog.SourceEntity, e.idString(), e.store.Len())
	e.Trigger(event.Change)
}

// Fetch reads the record from the remote resource and merges the response
// into the attribute state. It requires an identity attribute and returns
// ErrMissingID without issuing a request when there is none.
//
// The request runs asynchronously: on success the merge is followed by a
// change event, on failure the state stays untouched and an error event
// fires with the failure. Either way the returned Op settles afterwards.
func (e *Entity) Fetch(ctx context.Context) (*Op, error) {
	id, ok := e.store.Get(e.res.idKey)
	if !ok {
		return nil, ErrMissingID
	}

	op := newOp()
	path := e.res.recordPath(id)
	entityID := formatID(id)

	e.res.journalOpStart(op, synclog.SourceEntity, synclog.VerbGet, path, entityID)
	go e.run(ctx, op, synclog.VerbGet, path, entityID, func(ctx context.Context) (json.RawMessage, error) {
		return e.res.client.Get(ctx, path)
	})
	return op, nil
}

// Save writes the attribute state to the remote resource. Entities without
// an identity attribute are created with a POST to the base path; entities
// with one are updated with a PUT to the record path. Both the decision and
// the attribute snapshot sent are taken at call time, so overlapping saves
// each carry the state current when they were issued.
//
// Save itself never fails. Remote failures surface through the error event
// and through the returned Op once it settles; on success the response is
// merged and a change event fires, which is how a created entity receives
// its server-assigned identity.
func (e *Entity) Save(ctx context.Context) *Op {
	body := e.store.Snapshot()
	op := newOp()

	verb := synclog.VerbPost
	path := e.res.base
	entityID := ""
	if id, ok := body[e.res.idKey]; ok {
		verb = synclog.VerbPut
		path = e.res.recordPath(id)
		entityID = formatID(id)
	}

	e.res.journalOpStart(op, synclog.SourceEntity, verb, path, entityID)
	go e.run(ctx, op, verb, path, entityID, func(ctx context.Context) (json.RawMessage, error) {
		if verb == synclog.VerbPut {
			return e.res.client.Put(ctx, path, body)
		}
		return e.res.client.Post(ctx, path, body)
	})
	return op
}

// run performs the remote call, applies the outcome and settles op. Events
// fire before the settle so that state observed after Op.Wait reflects the
// applied response.
func (e *Entity) run(ctx context.Context, op *Op, verb synclog.Verb, path, entityID string, call func(context.Context) (json.RawMessage, error)) {
	started := time.Now()

	raw, err := call(ctx)
	var merged attrs.Map
	if err == nil {
		merged, err = decodeObject(raw)
	}

	if err != nil {
		e.res.journalOpSettle(op, synclog.SourceEntity, verb, path, entityID, started, e.store.Len(), err)
		e.Trigger(event.Error, err)
		op.settle(err)
		return
	}

	e.store.Merge(merged)
	e.res.journalOpSettle(op, synclog.SourceEntity, verb, path, e.idString(), started, e.store.Len(), nil)
	e.Trigger(event.Change)
	op.settle(nil)
}

// idString renders the current identity attribute for journal entries.
func (e *Entity) idString() string {
	id, ok := e.store.Get(e.res.idKey)
	if !ok {
		return ""
	}
	return formatID(id)
}
