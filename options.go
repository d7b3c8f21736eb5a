// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package poolx

import "github.com/luxfi/poolx/internal/poollog"

// Option configures a Pool at construction time. Options apply in order,
// after the positional maxEntries argument has been validated; cacheSize is
// validated afterward, so a WithCacheSize override is checked too.
type Option func(*config)

type config struct {
	maxMultiplex  int32
	maxUsageCount int32
	logger        poollog.Logger
	cacheSize     *int
}

func defaultConfig() config {
	return config{
		maxMultiplex:  1,
		maxUsageCount: -1,
		logger:        poollog.Root(),
	}
}

// WithMaxMultiplex sets the pool's initial maxMultiplex (default 1). It is
// equivalent to calling SetMaxMultiplex immediately after New, but avoids a
// brief window where the default would otherwise apply.
func WithMaxMultiplex(n int32) Option {
	return func(c *config) { c.maxMultiplex = n }
}

// WithMaxUsageCount sets the pool's initial maxUsageCount (default -1,
// unbounded). Equivalent to calling SetMaxUsageCount immediately after New.
func WithMaxUsageCount(k int32) Option {
	return func(c *config) { c.maxUsageCount = k }
}

// WithLogger overrides the logger used for disposal-failure reporting.
// Defaults to poollog.Root() (github.com/luxfi/log's root logger).
func WithLogger(l poollog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithCacheSize overrides New's positional cacheSize argument. n < 0 is a
// programmer error reported as ErrInvalidArgument, same as passing a
// negative cacheSize to New directly.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = &n }
}
