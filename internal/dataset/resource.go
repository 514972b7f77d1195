// Package dataset loads the name-suggestion-index datasets and builds the
// in-memory lookup structures the viewer reads.
package dataset

import (
	"context"
	"sync"
)

// State is the lifecycle of a loaded resource. Failure is a distinct state
// so a broken fetch is observable instead of an endless pending flag.
type State int

// Resource states.
const (
	StatePending State = iota
	StateReady
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Resource holds one dataset and its load state. A resource loads at most
// once per lifetime; there is no retry and no re-fetch on later reads.
type Resource[T any] struct {
	mu    sync.RWMutex
	once  sync.Once
	state State
	data  T
	err   error
}

// NewResource returns a pending resource.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{}
}

// Load runs fn exactly once and records the outcome. Subsequent calls are
// no-ops regardless of the first outcome.
func (r *Resource[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) {
	r.once.Do(func() {
		data, err := fn(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.state = StateFailed
			r.err = err
			return
		}
		r.state = StateReady
		r.data = data
	})
}

// State returns the current lifecycle state.
func (r *Resource[T]) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Ready reports whether the resource loaded successfully.
func (r *Resource[T]) Ready() bool {
	return r.State() == StateReady
}

// Loading reports whether the load has not completed yet.
func (r *Resource[T]) Loading() bool {
	return r.State() == StatePending
}

// Get returns the loaded data. ok is false unless the state is ready.
func (r *Resource[T]) Get() (data T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		var zero T
		return zero, false
	}
	return r.data, true
}

// Err returns the load error, if the resource failed.
func (r *Resource[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
