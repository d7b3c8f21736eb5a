// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolx

import "reflect"

// Reservation is a transient handle to a pending entry carved out by
// Pool.Reserve. It must be resolved by exactly one of Enable, Acquire, or
// Remove; an abandoned Reservation permanently occupies a capacity slot and
// counts against PendingCount until resolved.
type Reservation[T any] struct {
	pool *Pool[T]
	e    *entry[T]
}

// Entry returns the underlying entry. Its state is pending until this
// Reservation is resolved.
func (r *Reservation[T]) Entry() *Entry[T] {
	return &Entry[T]{pool: r.pool, e: r.e}
}

// Enable publishes value into the entry and transitions it from pending to
// open-idle. It fails with ErrClosed if the pool has been closed, with
// ErrNotPending if the entry was already resolved (enabled or removed) by a
// concurrent caller, which must never happen for a well-behaved caller
// holding the sole Reservation, and with ErrMissingValue if value is the
// zero value of a pointer-shaped T.
func (r *Reservation[T]) Enable(value T) error {
	if r.pool.closed.Load() {
		return ErrClosed
	}
	if isNilValue(value) {
		return ErrMissingValue
	}
	r.e.pooled = value
	if !r.e.state.CompareAndSwap(pendingHi, 0, 0, 0) {
		var zero T
		r.e.pooled = zero
		return ErrNotPending
	}
	r.pool.pending.Add(-1)
	return nil
}

// Acquire is the atomic enable-and-acquire variant: the caller owns the
// first acquisition of the entry with no window for another goroutine to
// observe it first. It fails with ErrClosed if the pool has been closed.
func (r *Reservation[T]) Acquire(value T) (*Entry[T], error) {
	if r.pool.closed.Load() {
		return nil, ErrClosed
	}
	if isNilValue(value) {
		return nil, ErrMissingValue
	}
	r.e.pooled = value
	if !r.e.state.CompareAndSwap(pendingHi, 0, 1, 1) {
		var zero T
		r.e.pooled = zero
		return nil, ErrNotPending
	}
	r.pool.pending.Add(-1)
	return &Entry[T]{pool: r.pool, e: r.e}, nil
}

// Remove aborts the reservation. Because the entry is still idle (lo == 0),
// removal always succeeds immediately.
func (r *Reservation[T]) Remove() {
	r.pool.remove(r.e)
}

// isNilValue reports whether v is a nil-shaped absent value: a nil
// interface, or a nil pointer/map/chan/func/slice held in T. Non-nilable
// kinds (structs, numbers, arrays) are never "missing".
func isNilValue[T any](v T) bool {
	iface := any(v)
	if iface == nil {
		return true
	}
	rv := reflect.ValueOf(iface)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
