// Package metrics exposes Prometheus instrumentation for optimizer calls.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the solve metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	// Solves counts optimizer calls by perturbation kind and status.
	Solves *prometheus.CounterVec
	// SolveDuration observes optimizer wall time by perturbation kind.
	SolveDuration *prometheus.HistogramVec
	// Batches counts screening batches by outcome.
	Batches *prometheus.CounterVec
}

// NewCollector creates a collector whose metric names carry namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	solves := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Total number of optimizer calls",
		},
		[]string{"kind", "status"},
	)

	solveDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Optimizer call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		},
		[]string{"kind"},
	)

	batches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screening_batches_total",
			Help:      "Total number of screening batches",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(solves, solveDuration, batches)

	return &Collector{
		registry:      registry,
		Solves:        solves,
		SolveDuration: solveDuration,
		Batches:       batches,
	}
}

// Registry returns the collector's registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveSolve records one optimizer call.
func (c *Collector) ObserveSolve(kind, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.Solves.WithLabelValues(kind, status).Inc()
	c.SolveDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveBatch records the outcome ("ok" or "error") of a screening batch.
func (c *Collector) ObserveBatch(outcome string) {
	if c == nil {
		return
	}
	c.Batches.WithLabelValues(outcome).Inc()
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Total sums every counter sample of the named family (without
// namespace), e.g. Total("solves_total").
func (c *Collector) Total(name string) float64 {
	if c == nil {
		return 0
	}
	families, err := c.registry.Gather()
	if err != nil {
		return 0
	}
	var sum float64
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "_"+name) && mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}

	return sum
}
