package keylock

import (
	"context"
	"errors"
	"sync"
)

// ErrTimeout is returned when the lock could not be acquired before the
// caller's deadline. Services map it to their retryable busy error.
var ErrTimeout = errors.New("keyed lock wait timed out")

// Registry hands out one logical mutex per key. Workflow and delegation
// mutations that target the same correspondence share a single Registry so
// step-number assignment, approver transitions, and the single-active
// delegation invariant are all computed under the same critical section.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*entry)}
}

// Acquire blocks until the key's lock is held or ctx expires. The returned
// release function must be called exactly once.
func (r *Registry) Acquire(ctx context.Context, key string) (func(), error) {
	r.mu.Lock()
	e, ok := r.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		r.locks[key] = e
	}
	e.refs++
	r.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			r.put(key, e)
		}, nil
	case <-ctx.Done():
		r.put(key, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

func (r *Registry) put(key string, e *entry) {
	r.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(r.locks, key)
	}
	r.mu.Unlock()
}
