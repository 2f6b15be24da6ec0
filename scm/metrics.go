// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scm

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is shared by every Client created in a process. It must be created
// once per registerer.
type Metrics struct {
	cacheHits prometheus.Counter
	clones    prometheus.Counter
	fetches   prometheus.Counter
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Number of requests served by an existing archive",
		}),
		clones: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clones_total",
			Help:      "Number of full repository clones",
		}),
		fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Number of incremental fetches on top of a seed archive",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of failed requests by kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time taken to materialize an archive",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.cacheHits),
		registerer.Register(m.clones),
		registerer.Register(m.fetches),
		registerer.Register(m.failures),
		registerer.Register(m.duration),
	)
	if errs.Errored() {
		return nil, errs.Err
	}

	return m, nil
}

func (m *Metrics) observe(start time.Time, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}

	kind := KindOf(err)
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(string(kind)).Inc()
}
