// Package metrics counts container registrations and lookups with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeNotFound     = "not_found"
	OutcomeNotSupported = "not_supported"
)

// Collector holds the container's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// kind: service | factory | factory_class | alias
	Registrations *prometheus.CounterVec

	// op: has | get | build | list | remove | extend | resolve
	Lookups *prometheus.CounterVec
}

// New creates a collector with its own registry.
func New(namespace string) (*Collector, error) {
	registry := prometheus.NewRegistry()

	registrations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of service registrations attempted by providers",
		},
		[]string{"kind", "outcome"},
	)

	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total number of container lookups",
		},
		[]string{"op", "outcome"},
	)

	for _, c := range []prometheus.Collector{registrations, lookups} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:      registry,
		Registrations: registrations,
		Lookups:       lookups,
	}, nil
}

// Registry returns the registry backing the collector, for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Registration records one registration attempt.
func (c *Collector) Registration(kind, outcome string) {
	if c == nil {
		return
	}
	c.Registrations.WithLabelValues(kind, outcome).Inc()
}

// Lookup records one lookup.
func (c *Collector) Lookup(op, outcome string) {
	if c == nil {
		return
	}
	c.Lookups.WithLabelValues(op, outcome).Inc()
}
