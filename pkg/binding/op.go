package binding

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Op tracks one synchronization operation from launch to settlement. Each
// Op carries a unique identifier that correlates its journal entries.
//
// An Op settles exactly once, after the operation's events have fired, so
// state observed after Wait reflects the applied response.
type Op struct {
	id   string
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newOp() *Op {
	return &Op{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// ID returns the operation's unique identifier.
func (o *Op) ID() string {
	return o.id
}

// Done returns a channel that is closed when the operation settles.
func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the operation has settled.
func (o *Op) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Err returns the operation's failure. It is nil while the operation is in
// flight and after a successful settlement.
func (o *Op) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Wait blocks until the operation settles or ctx is done, returning the
// operation's failure or the context error.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle records the outcome and releases waiters. Only the first call has
// an effect.
func (o *Op) settle(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	select {
	case <-o.done:
		return
	default:
	}
	o.err = err
	close(o.done)
}
