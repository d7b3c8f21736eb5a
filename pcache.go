// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolx

// LocalCache is a fixed-capacity, single-owner LIFO stack of recently
// released entries, a per-goroutine cache hint layered over the pool's
// shared entry list. It carries no
// synchronization whatsoever: every field access assumes exactly one
// goroutine touches a given LocalCache at a time. Pool.Acquire/Release use
// an internally-managed pool of LocalCache values (see pool.go); callers
// that want strict single-owner affinity across calls can obtain their own
// with Pool.LocalCache and drive it explicitly via AcquireLocal/ReleaseLocal.
type LocalCache[T any] struct {
	buf []*entry[T]
}

func newLocalCache[T any](capacity int) *LocalCache[T] {
	return &LocalCache[T]{buf: make([]*entry[T], 0, capacity)}
}

// push stores e if the stack has room; a full cache silently drops the hint.
// The cache is purely a latency optimization: losing a slot never affects
// correctness, since Acquire falls back to scanning the shared list.
func (c *LocalCache[T]) push(e *entry[T]) {
	if len(c.buf) >= cap(c.buf) {
		return
	}
	c.buf = append(c.buf, e)
}

// pop removes and returns the most recently pushed entry, or (nil, false)
// when empty. Every returned entry must still be re-validated by the
// caller via tryAcquire: a cache may legally hold stale or poisoned
// references.
func (c *LocalCache[T]) pop() (*entry[T], bool) {
	n := len(c.buf)
	if n == 0 {
		return nil, false
	}
	e := c.buf[n-1]
	c.buf[n-1] = nil
	c.buf = c.buf[:n-1]
	return e, true
}

func (c *LocalCache[T]) len() int {
	return len(c.buf)
}
