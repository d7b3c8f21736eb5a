// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolx

import "errors"

// Programmer-error sentinels: non-recoverable misuse, never the result of
// ordinary contention. Callers may errors.Is against these but should treat
// them as bugs to fix, not conditions to retry.
var (
	// ErrClosed is returned by Reservation.Enable/Acquire once the pool has
	// been closed. Reserve/Acquire/AcquireAt signal the same condition as a
	// plain (nil, false) rather than an error, since closure is an ordinary
	// expected outcome for those, not a programmer mistake.
	ErrClosed = errors.New("poolx: pool is closed")

	// ErrInvalidArgument is returned by configuration and construction calls
	// that receive an argument outside its documented domain.
	ErrInvalidArgument = errors.New("poolx: invalid argument")

	// ErrNotPending is returned by Reservation.Enable/Acquire when the
	// underlying entry is no longer in the pending state (already enabled,
	// already removed, or enabled twice).
	ErrNotPending = errors.New("poolx: entry is not pending")

	// ErrMissingValue is returned by Reservation.Enable/Acquire when called
	// with a nil/zero value that the pool cannot accept as a published
	// pooled value.
	ErrMissingValue = errors.New("poolx: missing pooled value")

	// ErrDoubleRelease is the abrupt failure signaled when tryRelease
	// observes a multiplex count that would go negative: the caller
	// released an entry it had not acquired.
	ErrDoubleRelease = errors.New("poolx: release without matching acquire")
)
