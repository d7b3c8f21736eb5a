// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command poolxdemo drives a synthetic acquire/release workload against a
// poolx.Pool and exposes its observability counters as prometheus gauges.
// It exists to exercise the external-collaborator surface around the pool
// (logging, metrics) that the library package itself deliberately stays
// free of.
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	luxlog "github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luxfi/poolx"
	"github.com/luxfi/poolx/internal/poolmetrics"
)

func main() {
	var (
		entries       = flag.Int("entries", 8, "pool capacity (maxEntries)")
		cacheSize     = flag.Int("cache-size", 4, "per-goroutine cache size")
		maxMultiplex  = flag.Int("max-multiplex", 1, "max concurrent acquisitions per entry")
		maxUsageCount = flag.Int("max-usage-count", -1, "max lifetime acquisitions per entry (-1 = unbounded)")
		workers       = flag.Int("workers", 8, "number of concurrent workers")
		cycles        = flag.Int("cycles", 1000, "acquire/release cycles per worker")
		logFile       = flag.String("log-file", "", "rotate standard-library log output to this file (empty disables)")
	)
	flag.Parse()

	logger := luxlog.Root()
	if *logFile != "" {
		// Rotate the plain run log through lumberjack; the pool's own
		// disposal-failure logging still goes through logger (luxfi/log).
		rotator := &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		defer rotator.Close()
		stdlog.SetOutput(rotator)
	}

	registry := prometheus.NewRegistry()
	gauges := poolmetrics.NewGauges(registry, "poolxdemo")
	gatherer := poolmetrics.NewGatherer(gauges)

	metaCache, err := lru.New(*entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating metadata cache: %v\n", err)
		os.Exit(1)
	}

	pool, err := poolx.New[*demoResource](*entries, *cacheSize,
		poolx.WithMaxMultiplex(int32(*maxMultiplex)),
		poolx.WithMaxUsageCount(int32(*maxUsageCount)),
		poolx.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for i := 0; i < *entries; i++ {
		res, ok := pool.Reserve(-1)
		if !ok {
			logger.Error("reserve failed before pool reached capacity")
			os.Exit(1)
		}
		r := newDemoResource(i)
		metaCache.Add(r.id, r.createdAt)
		if err := res.Enable(r); err != nil {
			logger.Error("enable failed", "err", err)
			os.Exit(1)
		}
	}

	var wg sync.WaitGroup
	wg.Add(*workers)
	for w := 0; w < *workers; w++ {
		go func(worker int) {
			defer wg.Done()
			for c := 0; c < *cycles; c++ {
				e, ok := pool.Acquire()
				if !ok {
					continue
				}
				_ = e.Pooled().id // simulate doing work with the resource
				if _, err := e.Release(); err != nil {
					logger.Error("release failed", "worker", worker, "err", err)
				}
			}
		}(w)
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	for {
		select {
		case <-ticker.C:
			gauges.Observe(poolmetrics.Stats(pool.Stats()))
		case <-done:
			gauges.Observe(poolmetrics.Stats(pool.Stats()))
			mfs, gatherErr := gatherer.Gather()
			if gatherErr != nil {
				logger.Error("gather failed", "err", gatherErr)
				os.Exit(1)
			}
			for _, mf := range mfs {
				fmt.Printf("%s = %v\n", mf.Name, mf.Metrics[0].Value.Value)
			}
			return
		}
	}
}

type demoResource struct {
	id        int
	createdAt time.Time
	closed    bool
}

func newDemoResource(id int) *demoResource {
	return &demoResource{id: id, createdAt: time.Now()}
}

// Close implements poolx.Disposable.
func (r *demoResource) Close() error {
	r.closed = true
	return nil
}
