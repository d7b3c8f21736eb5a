// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolx

import "github.com/luxfi/poolx/internal/atomicstate"

// pendingHi is the sentinel hi value of a reserved-but-not-yet-enabled
// entry: math.MinInt32, chosen so every real usage count (>= 0) and every
// closed marker (-1) compares unambiguously against it.
const pendingHi = int32(-1) << 31

// removedHi marks an entry that has been permanently closed or removed.
const removedHi = int32(-1)

// Disposable is implemented by pooled values that own a resource needing
// explicit release. Pool.remove and Pool.Close call Close on the winning
// goroutine when a value satisfies this interface; a returned error is
// logged and never propagated: disposal is best-effort.
type Disposable interface {
	Close() error
}

// entry is one pooled slot. Its concurrent state lives entirely in state,
// a packed (usage-count, multiplex-count) word; pooled is written during
// enable, before the CAS that publishes the entry as open. A Reservation
// Enable/Acquire whose CAS fails resets pooled to the zero value.
type entry[T any] struct {
	state  atomicstate.Word
	pooled T
}

func newPendingEntry[T any]() *entry[T] {
	e := &entry[T]{}
	e.state.Store(pendingHi, 0)
	return e
}

// tryAcquire attempts to claim one multiplex slot, honoring the maxMultiplex
// and maxUsageCount values passed in, which the Pool loads once per
// acquisition call: a concurrent reconfiguration may let an in-flight call
// acquire under the previous cap, which is accepted rather than guarded
// against.
func (e *entry[T]) tryAcquire(maxMultiplex int32, maxUsageCount int32) bool {
	for {
		hi, lo := e.state.Load()
		if hi < 0 {
			return false // pending or closed
		}
		if lo >= maxMultiplex {
			return false
		}
		if maxUsageCount > 0 && hi >= maxUsageCount {
			return false
		}
		if e.state.CompareAndSwap(hi, lo, hi+1, lo+1) {
			return true
		}
	}
}

// tryRelease returns one multiplex slot. It returns false when the entry has
// exhausted its lifetime usage count and has no remaining outstanding users:
// the caller must then call Pool.remove. A panic-worthy double release
// (lo would go negative) reports ErrDoubleRelease instead of corrupting
// state.
func (e *entry[T]) tryRelease(maxUsageCount int32) (reusable bool, err error) {
	for {
		hi, lo := e.state.Load()
		if hi < 0 {
			return false, nil // already closed; caller should remove
		}
		newLo := lo - 1
		if newLo < 0 {
			return false, ErrDoubleRelease
		}
		if !e.state.CompareAndSwap(hi, lo, hi, newLo) {
			continue
		}
		overUsed := maxUsageCount > 0 && hi >= maxUsageCount
		return !(overUsed && newLo == 0), nil
	}
}

// tryRemove forces the entry to the terminal closed state and reports
// whether this call won the delete token: true means the entry is now both
// closed and idle, so the caller must unlink it from the shared list and
// dispose pooled. wasPending reports whether the entry had never been
// enabled, so Pool.remove/reservation teardown know whether to decrement
// pending.
//
// tryRemove is idempotent: once an entry has actually reached the terminal
// (removedHi, 0) state, further calls observe that and report false rather
// than replaying a spurious no-op CAS as a second delete token. Without this
// check, Pool.close (which unconditionally calls tryRemove on every
// snapshotted entry) and a holder's later explicit Pool.remove on the same
// already-finalized entry could each believe they won the delete token and
// double-dispose the pooled value.
func (e *entry[T]) tryRemove() (deleteToken bool, wasPending bool) {
	for {
		hi, lo := e.state.Load()
		if hi == removedHi && lo <= 0 {
			return false, false
		}
		newLo := lo - 1
		if newLo < 0 {
			newLo = 0
		}
		if !e.state.CompareAndSwap(hi, lo, removedHi, newLo) {
			continue
		}
		return newLo == 0, hi == pendingHi
	}
}

// isIdle reports lo <= 0.
func (e *entry[T]) isIdle() bool {
	_, lo := e.state.Load()
	return lo <= 0
}

// isClosed reports hi < 0, i.e. pending or removed.
func (e *entry[T]) isClosed() bool {
	hi, _ := e.state.Load()
	return hi < 0
}

// isPending reports hi == pendingHi specifically (reserved, not yet
// resolved either way).
func (e *entry[T]) isPending() bool {
	hi, _ := e.state.Load()
	return hi == pendingHi
}

// usageCount returns max(hi, 0).
func (e *entry[T]) usageCount() int32 {
	hi, _ := e.state.Load()
	if hi < 0 {
		return 0
	}
	return hi
}

// dispose closes pooled if it implements Disposable, logging any failure
// through log rather than propagating it.
func (e *entry[T]) dispose(log disposeLogger) {
	if d, ok := any(e.pooled).(Disposable); ok {
		if err := d.Close(); err != nil {
			log.disposeFailed(err)
		}
	}
}

// disposeLogger is the minimal logging seam entry needs; Pool implements it
// via internal/poollog so entry.go stays free of a direct logging import
// beyond this interface.
type disposeLogger interface {
	disposeFailed(err error)
}
