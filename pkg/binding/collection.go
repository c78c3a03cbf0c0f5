package binding

import (
	"context"
	"sync"
	"time"

	"github.com/restbind/restbind-go/pkg/attrs"
	"github.com/restbind/restbind-go/pkg/event"
	"github.com/restbind/restbind-go/pkg/synclog"
)

// Collection holds an ordered set of entities materialized from a
// resource's listing. Fetch replaces the models wholesale; there is no
// incremental add or remove at this layer.
//
// A Collection is safe for concurrent use.
type Collection struct {
	*event.Emitter

	res *Resource

	mu     sync.RWMutex
	models []*Entity
}

// NewCollection creates an empty collection bound to the resource.
func (r *Resource) NewCollection() *Collection {
	return &Collection{
		Emitter: event.NewEmitter(),
		res:     r,
	}
}

// Len returns the number of models.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.models)
}

// At returns the model at index i, or nil when i is out of range.
func (c *Collection) At(i int) *Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.models) {
		return nil
	}
	return c.models[i]
}

// Models returns a snapshot of the models in listing order. Mutating the
// returned slice does not affect the collection.
func (c *Collection) Models() []*Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entity, len(c.models))
	copy(out, c.models)
	return out
}

// Reset replaces the models wholesale and emits a single change event.
func (c *Collection) Reset(models ...*Entity) {
	c.replace(models)
	c.res.journalChange(synclog.SourceCollection, "", len(models))
	c.Trigger(event.Change)
}

// Fetch lists the remote resource and replaces the models with one entity
// per listed record, in server order. A single change event fires on the
// collection after the replacement; the previous models are discarded, not
// merged. On failure the models stay untouched and an error event fires.
// Either way the returned Op settles afterwards.
func (c *Collection) Fetch(ctx context.Context) *Op {
	op := newOp()
	path := c.res.base

	c.res.journalOpStart(op, synclog.SourceCollection, synclog.VerbGet, path, "")
	go c.run(ctx, op, path)
	return op
}

func (c *Collection) run(ctx context.Context, op *Op, path string) {
	started := time.Now()

	raw, err := c.res.client.Get(ctx, path)
	var records []attrs.Map
	if err == nil {
		records, err = decodeList(raw)
	}

	if err != nil {
		c.res.journalOpSettle(op, synclog.SourceCollection, synclog.VerbGet, path, "", started, c.Len(), err)
		c.Trigger(event.Error, err)
		op.settle(err)
		return
	}

	models := make([]*Entity, len(records))
	for i, rec := range records {
		models[i] = c.res.NewEntity(rec)
	}
	c.replace(models)

	c.res.journalOpSettle(op, synclog.SourceCollection, synclog.VerbGet, path, "", started, len(models), nil)
	c.Trigger(event.Change)
	op.settle(nil)
}

func (c *Collection) replace(models []*Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
}
