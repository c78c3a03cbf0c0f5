// Package event provides the named-event emitter that entities and
// collections use to announce state changes.
//
// An Emitter maintains an ordered handler list per event name. Triggering
// an event invokes the handlers registered for that name synchronously, in
// registration order, passing the trigger arguments through verbatim.
//
// # Usage
//
//	em := event.NewEmitter()
//	em.On(event.Change, func(args ...any) {
//	    fmt.Println("changed")
//	})
//	em.Trigger(event.Change)
//
// Subscriptions are persistent: a handler stays registered until removed
// with Off and runs once per trigger. Registering the same function twice
// makes it run twice. Triggering an event with no handlers is a no-op.
//
// # Built-in names
//
// Change and Error are the names the binding layer emits. Any other Name
// value works the same way, so callers can define their own events.
//
// # Concurrency
//
// All Emitter methods are safe for concurrent use. Trigger snapshots the
// handler list before dispatch and invokes handlers without holding any
// lock, so handlers may call On, Off or Trigger themselves; registrations
// made during a dispatch take effect on the next trigger.
package event
