// Package metrics exports cache events as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/taskcache/types"
)

// Prometheus implements types.Metrics with counters and a queue-depth gauge.
type Prometheus struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	expirations prometheus.Counter
	evictions   prometheus.Counter
	sets        prometheus.Counter
	clears      prometheus.Counter
	failures    prometheus.Counter
	queueDepth  prometheus.Gauge
}

// NewPrometheus creates the collectors under namespace and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		})
	}

	p := &Prometheus{
		hits:        counter("hits_total", "Reads that returned a live entry"),
		misses:      counter("misses_total", "Reads that found no entry"),
		expirations: counter("expired_total", "Reads that found an entry past its TTL"),
		evictions:   counter("evictions_total", "Entries removed to respect the size bound"),
		sets:        counter("sets_total", "Entries written"),
		clears:      counter("clears_total", "Clear and ClearAll calls"),
		failures:    counter("operation_failures_total", "Serialized operations that returned an error or panicked"),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "pending_operations",
			Help:      "Submitted operations that have not settled",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.hits, p.misses, p.expirations, p.evictions,
		p.sets, p.clears, p.failures, p.queueDepth,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Hit()             { p.hits.Inc() }
func (p *Prometheus) Miss()            { p.misses.Inc() }
func (p *Prometheus) Expire()          { p.expirations.Inc() }
func (p *Prometheus) Eviction()        { p.evictions.Inc() }
func (p *Prometheus) Set()             { p.sets.Inc() }
func (p *Prometheus) Clear()           { p.clears.Inc() }
func (p *Prometheus) Failure()         { p.failures.Inc() }
func (p *Prometheus) QueueDepth(n int) { p.queueDepth.Set(float64(n)) }

var _ types.Metrics = (*Prometheus)(nil)
