package memory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chronicle_memory",
			Name:      "provider_ops_total",
			Help:      "Memory provider operations attempted.",
		},
		[]string{"op"},
	)

	providerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chronicle_memory",
			Name:      "provider_failures_total",
			Help:      "Memory provider operations that returned a negative or empty result.",
		},
		[]string{"op"},
	)
)
