// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poolx implements a generic, concurrent object pool: entries may be
// multiplexed (acquired concurrently up to a configured cap), retired after
// a bounded number of lifetime acquisitions, and acquired through a
// lock-free per-goroutine cache layered over a lock-free shared entry list.
// Acquisition never blocks; callers implement any waiting policy of their
// own on top.
package poolx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/luxfi/poolx/internal/poollog"
)

// Pool is a generic concurrent object pool of values of type T. The zero
// Pool is not usable; construct one with New.
type Pool[T any] struct {
	maxEntries int
	cacheSize  int

	maxMultiplex  atomic.Int32
	maxUsageCount atomic.Int32

	sharedList atomic.Pointer[[]*entry[T]]
	pending    atomic.Int32
	closed     atomic.Bool

	reserveMu sync.Mutex

	defaultCaches sync.Pool // of *LocalCache[T]

	logger poollog.Logger
}

// New constructs a Pool with the given hard capacity on the shared entry
// list (maxEntries) and per-goroutine cache capacity (cacheSize, 0 disables
// caching); cacheSize may be overridden by WithCacheSize. Both are immutable
// for the life of the pool. maxEntries <= 0 or a final cacheSize < 0 is a
// programmer error reported as ErrInvalidArgument.
func New[T any](maxEntries, cacheSize int, opts ...Option) (*Pool[T], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: maxEntries must be > 0, got %d", ErrInvalidArgument, maxEntries)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize != nil {
		cacheSize = *cfg.cacheSize
	}
	if cacheSize < 0 {
		return nil, fmt.Errorf("%w: cacheSize must be >= 0, got %d", ErrInvalidArgument, cacheSize)
	}
	if cfg.maxMultiplex < 1 {
		return nil, fmt.Errorf("%w: maxMultiplex must be >= 1, got %d", ErrInvalidArgument, cfg.maxMultiplex)
	}
	if cfg.maxUsageCount == 0 {
		return nil, fmt.Errorf("%w: maxUsageCount must be != 0, got 0", ErrInvalidArgument)
	}

	p := &Pool[T]{
		maxEntries: maxEntries,
		cacheSize:  cacheSize,
		logger:     cfg.logger,
	}
	p.maxMultiplex.Store(cfg.maxMultiplex)
	p.maxUsageCount.Store(cfg.maxUsageCount)
	empty := make([]*entry[T], 0)
	p.sharedList.Store(&empty)
	p.defaultCaches.New = func() any { return newLocalCache[T](cacheSize) }
	return p, nil
}

// disposeFailed implements entry's disposeLogger seam.
func (p *Pool[T]) disposeFailed(err error) {
	poollog.DisposeFailed(p.logger, err)
}

// SetMaxMultiplex updates the cap on concurrent acquisitions per entry.
// n must be >= 1; violations are a programmer error.
func (p *Pool[T]) SetMaxMultiplex(n int32) error {
	if n < 1 {
		return fmt.Errorf("%w: maxMultiplex must be >= 1, got %d", ErrInvalidArgument, n)
	}
	p.maxMultiplex.Store(n)
	return nil
}

// SetMaxUsageCount updates the cap on lifetime acquisitions per entry.
// k must be != 0; negative means unbounded.
func (p *Pool[T]) SetMaxUsageCount(k int32) error {
	if k == 0 {
		return fmt.Errorf("%w: maxUsageCount must be != 0", ErrInvalidArgument)
	}
	p.maxUsageCount.Store(k)
	return nil
}

// Reserve carves out a new pending slot, returning a Reservation the caller
// must resolve via Enable, Acquire, or Remove. maxReservations caps the
// number of unresolved reservations permitted at once; a negative value
// means unbounded. Returns (nil, false) without signaling an error when the
// pool is closed, at capacity, or the reservation cap is already met.
func (p *Pool[T]) Reserve(maxReservations int) (*Reservation[T], bool) {
	p.reserveMu.Lock()
	defer p.reserveMu.Unlock()

	if p.closed.Load() {
		return nil, false
	}
	if len(*p.sharedList.Load()) >= p.maxEntries {
		return nil, false
	}
	if maxReservations >= 0 && int(p.pending.Load()) >= maxReservations {
		return nil, false
	}

	p.pending.Add(1)
	e := newPendingEntry[T]()
	p.appendEntry(e)
	return &Reservation[T]{pool: p, e: e}, true
}

// Acquire returns a non-blocking acquisition, checking a LocalCache taken
// from the pool's internal sync.Pool before falling back to a scan of the
// shared list. Returns (nil, false) when the pool is closed or nothing is
// acquirable.
func (p *Pool[T]) Acquire() (*Entry[T], bool) {
	if p.closed.Load() {
		return nil, false
	}

	mm, mu := p.maxMultiplex.Load(), p.maxUsageCount.Load()

	if p.cacheSize > 0 {
		cache := p.defaultCaches.Get().(*LocalCache[T])
		for {
			e, ok := cache.pop()
			if !ok {
				break
			}
			if e.tryAcquire(mm, mu) {
				p.defaultCaches.Put(cache)
				return &Entry[T]{pool: p, e: e}, true
			}
		}
		p.defaultCaches.Put(cache)
	}

	for _, e := range *p.sharedList.Load() {
		if e.tryAcquire(mm, mu) {
			return &Entry[T]{pool: p, e: e}, true
		}
	}
	return nil, false
}

// AcquireAt bypasses the cache and attempts to acquire the entry at the
// given index of the shared list directly. Returns (nil, false) when out of
// bounds, closed, or the entry's tryAcquire fails.
func (p *Pool[T]) AcquireAt(index int) (*Entry[T], bool) {
	if p.closed.Load() {
		return nil, false
	}
	list := *p.sharedList.Load()
	if index < 0 || index >= len(list) {
		return nil, false
	}
	e := list[index]
	if e.tryAcquire(p.maxMultiplex.Load(), p.maxUsageCount.Load()) {
		return &Entry[T]{pool: p, e: e}, true
	}
	return nil, false
}

// AcquireLocal is like Acquire but checks the caller-supplied LocalCache
// instead of the pool's internal default cache, for goroutines that want
// strict single-owner cache affinity across many calls, threading their own
// cache handle through instead of relying on the pool's internal default.
func (p *Pool[T]) AcquireLocal(cache *LocalCache[T]) (*Entry[T], bool) {
	if p.closed.Load() {
		return nil, false
	}
	mm, mu := p.maxMultiplex.Load(), p.maxUsageCount.Load()
	if cache != nil {
		for {
			e, ok := cache.pop()
			if !ok {
				break
			}
			if e.tryAcquire(mm, mu) {
				return &Entry[T]{pool: p, e: e}, true
			}
		}
	}
	for _, e := range *p.sharedList.Load() {
		if e.tryAcquire(mm, mu) {
			return &Entry[T]{pool: p, e: e}, true
		}
	}
	return nil, false
}

// LocalCache returns a fresh cache handle sized to the pool's configured
// cacheSize, for use with AcquireLocal/ReleaseLocal.
func (p *Pool[T]) LocalCache() *LocalCache[T] {
	return newLocalCache[T](p.cacheSize)
}

// Release returns an acquisition. The bool result tells the caller whether
// the entry remains reusable: false means the entry has retired (usage
// count exhausted) or was already closed, and the caller must call Remove.
// A non-nil error is returned only for the programmer-error case of
// releasing an entry that was not actually held (ErrDoubleRelease).
func (p *Pool[T]) Release(h *Entry[T]) (bool, error) {
	reusable, err := h.e.tryRelease(p.maxUsageCount.Load())
	if err != nil {
		return false, err
	}
	if reusable && p.cacheSize > 0 && !p.closed.Load() {
		cache := p.defaultCaches.Get().(*LocalCache[T])
		cache.push(h.e)
		p.defaultCaches.Put(cache)
	}
	return reusable, nil
}

// ReleaseLocal is the AcquireLocal counterpart of Release, pushing onto the
// caller-supplied cache instead of the pool's default.
func (p *Pool[T]) ReleaseLocal(h *Entry[T], cache *LocalCache[T]) (bool, error) {
	reusable, err := h.e.tryRelease(p.maxUsageCount.Load())
	if err != nil {
		return false, err
	}
	if reusable && cache != nil && !p.closed.Load() {
		cache.push(h.e)
	}
	return reusable, nil
}

// Remove permanently evicts an entry. It returns true at most once per
// entry — the call that observes the entry become both closed and idle,
// unless Close's own pass was that call —
// at which point it unlinks the entry from the shared list and disposes
// its pooled value (best-effort; disposal errors are logged, not
// propagated). Other callers racing on the same entry, or calling Remove
// after the entry was already fully torn down (e.g. by a prior Close),
// get a false no-op.
func (p *Pool[T]) Remove(h *Entry[T]) bool {
	return p.remove(h.e)
}

func (p *Pool[T]) remove(e *entry[T]) bool {
	deleteToken, wasPending := e.tryRemove()
	if wasPending {
		p.pending.Add(-1)
	}
	if !deleteToken {
		return false
	}
	p.unlink(e)
	e.dispose(p)
	return true
}

// Close drains the pool: it is marked closed and the shared list cleared
// under the reservation lock, then every previously-listed entry is forced
// to the terminal state and disposed if and when that call wins the
// delete token. Close's pass lowers each entry's multiplex count by one, so
// an entry with more than one outstanding acquisition at the moment of
// Close is disposed by the later Remove call that brings its count to zero,
// not by the time Close returns; Release on such a closed entry returns
// false without changing it. After Close, Reserve, Acquire, AcquireAt and
// AcquireLocal fail-return; Remove keeps working so holders can finish
// draining.
func (p *Pool[T]) Close() {
	p.reserveMu.Lock()
	p.closed.Store(true)
	snapshot := *p.sharedList.Load()
	empty := make([]*entry[T], 0)
	p.sharedList.Store(&empty)
	p.reserveMu.Unlock()

	for _, e := range snapshot {
		deleteToken, wasPending := e.tryRemove()
		if wasPending {
			p.pending.Add(-1)
		}
		if deleteToken {
			e.dispose(p)
		}
	}
}

// IsClosed reports whether Close has been called.
func (p *Pool[T]) IsClosed() bool {
	return p.closed.Load()
}

// PendingCount returns the number of reserved-but-unresolved entries.
func (p *Pool[T]) PendingCount() int {
	return int(p.pending.Load())
}

// Size returns the current size of the shared entry list.
func (p *Pool[T]) Size() int {
	return len(*p.sharedList.Load())
}

// IdleCount returns the number of open entries with no outstanding
// acquisitions (lo <= 0 && hi >= 0).
func (p *Pool[T]) IdleCount() int {
	n := 0
	for _, e := range *p.sharedList.Load() {
		hi, lo := e.state.Load()
		if hi >= 0 && lo <= 0 {
			n++
		}
	}
	return n
}

// InUseCount returns the number of open entries with at least one
// outstanding acquisition.
func (p *Pool[T]) InUseCount() int {
	n := 0
	for _, e := range *p.sharedList.Load() {
		hi, lo := e.state.Load()
		if hi >= 0 && lo > 0 {
			n++
		}
	}
	return n
}

// Values returns a read-only snapshot of the pooled values currently
// enabled (open, whether idle or in use); pending and closed entries are
// excluded.
func (p *Pool[T]) Values() []T {
	list := *p.sharedList.Load()
	out := make([]T, 0, len(list))
	for _, e := range list {
		if hi, _ := e.state.Load(); hi >= 0 {
			out = append(out, e.pooled)
		}
	}
	return out
}

// Stats is a single-call snapshot of the four observability counters,
// useful to callers (e.g. a metrics exporter). Size, Idle and InUse are
// counted over one load of the shared list, so Idle+InUse never exceeds
// Size; each entry's state and Pending are still separate atomic loads and
// may observe different instants.
type Stats struct {
	Size    int
	Pending int
	Idle    int
	InUse   int
}

// Stats returns a Stats snapshot computed from one shared-list load.
func (p *Pool[T]) Stats() Stats {
	list := *p.sharedList.Load()
	st := Stats{Size: len(list), Pending: int(p.pending.Load())}
	for _, e := range list {
		hi, lo := e.state.Load()
		switch {
		case hi < 0:
		case lo > 0:
			st.InUse++
		default:
			st.Idle++
		}
	}
	return st
}

func (p *Pool[T]) appendEntry(e *entry[T]) {
	for {
		old := p.sharedList.Load()
		newSlice := make([]*entry[T], len(*old)+1)
		copy(newSlice, *old)
		newSlice[len(*old)] = e
		if p.sharedList.CompareAndSwap(old, &newSlice) {
			return
		}
	}
}

func (p *Pool[T]) unlink(target *entry[T]) {
	for {
		old := p.sharedList.Load()
		idx := -1
		for i, e := range *old {
			if e == target {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		newSlice := make([]*entry[T], 0, len(*old)-1)
		newSlice = append(newSlice, (*old)[:idx]...)
		newSlice = append(newSlice, (*old)[idx+1:]...)
		if p.sharedList.CompareAndSwap(old, &newSlice) {
			return
		}
	}
}

// Entry is a handle to one acquired (or reserved) pooled slot.
type Entry[T any] struct {
	pool *Pool[T]
	e    *entry[T]
}

// Pooled returns the entry's pooled value.
func (h *Entry[T]) Pooled() T {
	return h.e.pooled
}

// UsageCount returns the entry's lifetime acquisition count.
func (h *Entry[T]) UsageCount() int32 {
	return h.e.usageCount()
}

// IsIdle reports whether the entry currently has zero outstanding
// acquisitions.
func (h *Entry[T]) IsIdle() bool {
	return h.e.isIdle()
}

// IsClosed reports whether the entry is pending or has been removed
// (hi < 0). A retired entry that has not yet been removed reports false.
func (h *Entry[T]) IsClosed() bool {
	return h.e.isClosed()
}

// Release is a convenience delegate for pool.Release(h).
func (h *Entry[T]) Release() (bool, error) {
	return h.pool.Release(h)
}
