// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package atomicstate implements a single 64-bit atomic word that packs two
// independent signed 32-bit counters, updated together under one
// compare-and-swap. It backs the entry state machine in package poolx: every
// transition between pending, open, in-use and closed is one dual-field CAS
// on a Word, never two separate atomics.
package atomicstate

import "sync/atomic"

// Word is a 64-bit word split into a high and low signed 32-bit half. The
// zero Word is (0, 0); callers that need a different initial state call
// Store before publishing the Word to other goroutines. Word must not be
// copied after first use (it embeds atomic.Int64).
type Word struct {
	v atomic.Int64
}

// Store atomically overwrites the word with (hi, lo) without checking its
// current value, so a concurrent CompareAndSwap's transition can be lost;
// only safe before the Word is shared, or from its sole owner.
func (w *Word) Store(hi, lo int32) {
	w.v.Store(pack(hi, lo))
}

func pack(hi, lo int32) int64 {
	return int64(hi)<<32 | int64(uint32(lo))
}

func unpack(v int64) (hi, lo int32) {
	return int32(v >> 32), int32(uint32(v))
}

// Load returns the current (hi, lo) halves. The read has acquire semantics:
// it happens-after any CompareAndSwap that stored the observed value.
func (w *Word) Load() (hi, lo int32) {
	return unpack(w.v.Load())
}

// CompareAndSwap atomically replaces (expectedHi, expectedLo) with
// (newHi, newLo) and reports whether it succeeded. It fails whenever either
// half does not match the current value, never only one of them.
func (w *Word) CompareAndSwap(expectedHi, expectedLo, newHi, newLo int32) bool {
	return w.v.CompareAndSwap(pack(expectedHi, expectedLo), pack(newHi, newLo))
}
