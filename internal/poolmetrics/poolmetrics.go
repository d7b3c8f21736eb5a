// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poolmetrics exposes a Pool's observability counters (pendingCount,
// idleCount, inUseCount, size) as both prometheus gauges and a
// github.com/luxfi/metric Gatherer, for the demo binary in cmd/poolxdemo.
// The library package poolx itself stays free of any metrics dependency;
// this package is the external collaborator that owns that concern.
package poolmetrics

import (
	"sort"

	"github.com/luxfi/metric"
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats mirrors poolx.Stats without importing the root package, so this
// package can be reused against anything shaped the same way.
type Stats struct {
	Size    int
	Pending int
	Idle    int
	InUse   int
}

// Gauges holds the four pool gauges registered against a prometheus
// registry.
type Gauges struct {
	Size    prometheus.Gauge
	Pending prometheus.Gauge
	Idle    prometheus.Gauge
	InUse   prometheus.Gauge
}

// NewGauges creates and registers the four gauges under namespace.
func NewGauges(reg *prometheus.Registry, namespace string) *Gauges {
	g := &Gauges{
		Size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "size", Help: "current number of entries in the shared list",
		}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pending", Help: "reserved-but-unresolved entries",
		}),
		Idle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "idle", Help: "open entries with zero outstanding acquisitions",
		}),
		InUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "in_use", Help: "open entries with at least one outstanding acquisition",
		}),
	}
	reg.MustRegister(g.Size, g.Pending, g.Idle, g.InUse)
	return g
}

// Observe updates all four gauges from a Stats snapshot.
func (g *Gauges) Observe(s Stats) {
	g.Size.Set(float64(s.Size))
	g.Pending.Set(float64(s.Pending))
	g.Idle.Set(float64(s.Idle))
	g.InUse.Set(float64(s.InUse))
}

// Gatherer adapts Gauges to github.com/luxfi/metric.Gatherer, following the
// sorted-name, switch-by-type shape of metrics/gatherer/gatherer.go in the
// teacher, simplified to the four known gauges this package owns instead of
// an arbitrary geth-style metrics.Registry.
type Gatherer struct {
	gauges *Gauges
}

var _ metric.Gatherer = (*Gatherer)(nil)

// NewGatherer returns a Gatherer over g.
func NewGatherer(g *Gauges) *Gatherer {
	return &Gatherer{gauges: g}
}

// Gather implements metric.Gatherer.
func (a *Gatherer) Gather() ([]*metric.MetricFamily, error) {
	named := map[string]prometheus.Gauge{
		"poolx_size":    a.gauges.Size,
		"poolx_pending": a.gauges.Pending,
		"poolx_idle":    a.gauges.Idle,
		"poolx_in_use":  a.gauges.InUse,
	}
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	mfs := make([]*metric.MetricFamily, 0, len(names))
	for _, name := range names {
		var m dto.Metric
		if err := named[name].Write(&m); err != nil {
			return nil, err
		}
		mfs = append(mfs, &metric.MetricFamily{
			Name: name,
			Type: metric.MetricTypeGauge,
			Metrics: []metric.Metric{{
				Value: metric.MetricValue{Value: m.GetGauge().GetValue()},
			}},
		})
	}
	return mfs, nil
}
