package client

import (
	"context"
	"errors"
	"sync"
)

// State is the lifecycle of an optimistic value.
type State int

const (
	// Settled means no change has been applied yet.
	Settled State = iota
	Pending
	Confirmed
	Reverted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	default:
		return "settled"
	}
}

// ErrPending is returned when a change is applied while another is in flight.
var ErrPending = errors.New("a change is already pending")

// Optimistic holds a locally echoed value alongside the last value the
// server agreed to. Only one change may be pending at a time.
type Optimistic[T any] struct {
	mu        sync.Mutex
	committed T
	value     T
	state     State
	err       error
}

func NewOptimistic[T any](initial T) *Optimistic[T] {
	return &Optimistic[T]{committed: initial, value: initial}
}

// Apply shows next immediately and moves to Pending.
func (o *Optimistic[T]) Apply(next T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == Pending {
		return ErrPending
	}
	o.value = next
	o.state = Pending
	o.err = nil
	return nil
}

// Confirm settles a pending change on the value the server reported.
func (o *Optimistic[T]) Confirm(actual T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Pending {
		return
	}
	o.committed = actual
	o.value = actual
	o.state = Confirmed
}

// Revert restores the last committed value and records why.
func (o *Optimistic[T]) Revert(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Pending {
		return
	}
	o.value = o.committed
	o.state = Reverted
	o.err = err
}

// Run applies next, calls op, then confirms with its result or reverts on error.
func (o *Optimistic[T]) Run(ctx context.Context, next T, op func(ctx context.Context) (T, error)) (T, error) {
	if err := o.Apply(next); err != nil {
		return o.Value(), err
	}
	actual, err := op(ctx)
	if err != nil {
		o.Revert(err)
		return o.Value(), err
	}
	o.Confirm(actual)
	return actual, nil
}

func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Optimistic[T]) Committed() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.committed
}

func (o *Optimistic[T]) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err is the failure behind the last revert.
func (o *Optimistic[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
