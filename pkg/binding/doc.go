// Package binding keeps in-memory records synchronized with a remote REST
// resource and announces every state change through events.
//
// A Resource describes one remote collection endpoint: the rest.Client to
// reach it, its base path, and which attribute identifies records. Entities
// and collections are built from it:
//
//	client, _ := rest.New("https://api.example.com")
//	todos, _ := binding.NewResource(client, "/api/todos")
//
//	todo := todos.NewEntity(attrs.Map{"id": 7})
//	todo.On(event.Change, func(args ...any) {
//	    name, _ := todo.Get("title")
//	    fmt.Println("title is now", name)
//	})
//
//	op, err := todo.Fetch(ctx)
//	if err != nil {
//	    // only precondition failures surface here, e.g. a missing id
//	    return err
//	}
//	_ = op.Wait(ctx)
//
// # Synchronization model
//
// Fetch and Save return immediately with an Op handle; the remote call runs
// in its own goroutine. When the call settles, the response is applied to
// the attribute state and events fire, then the Op settles. Callers choose
// their style: subscribe to events, or await the Op, or both.
//
//   - success: response merged into state, then a change event
//   - failure: state untouched, an error event carrying the failure
//
// Remote failures are never returned by Save itself; they reach the caller
// through the error event and through Op.Err after settlement. Fetch
// additionally fails fast, synchronously, when the entity has no identity
// attribute.
//
// Save picks its verb at call time: entities without an identity attribute
// POST to the base path (create), entities with one PUT to the record path
// (update). The attribute snapshot sent is also taken at call time, so
// overlapping saves each carry the state current when they were issued.
// Overlapping operations settle in whatever order the remote answers; the
// last settle wins. There is no retry, timeout or conflict detection at
// this layer.
//
// # Collections
//
// A Collection materializes the resource's listing. Fetch replaces its
// models wholesale, preserving server order, and emits a single change
// event on the collection:
//
//	list := todos.NewCollection()
//	list.On(event.Change, func(args ...any) {
//	    fmt.Println(list.Len(), "todos")
//	})
//	list.Fetch(ctx)
//
// # Observability
//
// A Resource built with WithJournal records every change and operation to a
// synclog.Logger; WithLogger enables operational debug logging via slog.
package binding
