package event

import "sync"

// Name identifies an event. The binding layer uses Change and Error;
// callers may trigger and subscribe to arbitrary additional names.
type Name string

const (
	// Change signals that observable state was mutated.
	Change Name = "change"

	// Error signals a failed remote operation. The failure is passed to
	// handlers as the first trigger argument.
	Error Name = "error"
)

// Handler receives the arguments passed to Trigger, unmodified.
type Handler func(args ...any)

// SubscriptionID identifies a single registration for removal with Off.
type SubscriptionID uint64

// registration pairs a handler with its removal handle.
type registration struct {
	id SubscriptionID
	fn Handler
}

// Emitter dispatches named events to registered handlers.
// It is safe for concurrent use. The zero value is not usable;
// create instances with NewEmitter.
type Emitter struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Name][]registration
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[Name][]registration),
	}
}

// On registers fn for the named event and returns its subscription ID.
// Handlers run in registration order, and the same function may be
// registered multiple times. A nil handler is ignored and returns 0.
func (e *Emitter) On(name Name, fn Handler) SubscriptionID {
	if fn == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	e.handlers[name] = append(e.handlers[name], registration{id: e.nextID, fn: fn})
	return e.nextID
}

// Off removes the registration identified by id from the named event.
// The order of the remaining handlers is preserved. It returns false
// when no such registration exists.
func (e *Emitter) Off(name Name, id SubscriptionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.handlers[name]
	for i, reg := range regs {
		if reg.id == id {
			e.handlers[name] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

// Trigger invokes every handler registered for the named event, in
// registration order, passing args through verbatim. Dispatch is
// synchronous: Trigger returns after the last handler returns.
func (e *Emitter) Trigger(name Name, args ...any) {
	// Snapshot under read lock, invoke outside the lock so handlers
	// can re-enter the emitter.
	e.mu.RLock()
	regs := e.handlers[name]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	e.mu.RUnlock()

	for _, reg := range snapshot {
		reg.fn(args...)
	}
}

// HandlerCount returns the number of handlers registered for name.
func (e *Emitter) HandlerCount(name Name) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[name])
}
