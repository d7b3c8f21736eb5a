// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poollog re-exports the subset of github.com/luxfi/log that poolx
// needs for its one ambient logging concern: reporting a pooled value that
// failed to dispose on remove or close: best-effort, never propagated.
package poollog

import (
	luxlog "github.com/luxfi/log"
)

// Logger is the interface poolx.Pool accepts for disposal-failure reporting.
type Logger = luxlog.Logger

// Root returns the default package logger, used when a Pool is constructed
// without an explicit WithLogger option.
func Root() Logger {
	return luxlog.Root()
}

// DisposeFailed logs a pooled value that failed to close during remove/close.
func DisposeFailed(l Logger, err error) {
	l.Warn("poolx: pooled value failed to dispose", "error", err)
}
