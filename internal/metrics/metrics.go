// Package metrics holds the Prometheus collectors for the gate and the
// dispatcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuthzDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indexgate_authz_decisions_total",
		Help: "Authorization gate outcomes by permission.",
	}, []string{"action", "resource", "outcome"})

	AuthzLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "indexgate_authz_check_seconds",
		Help:    "Time spent waiting on the authorization oracle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"outcome"})

	Dispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indexgate_dispatch_total",
		Help: "Request outcomes by operation.",
	}, []string{"operation", "outcome"})

	DispatchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "indexgate_dispatch_seconds",
		Help:    "Downstream call latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{AuthzDecisions, AuthzLatency, Dispatches, DispatchLatency}
}

// Register registers all collectors on reg (or the default registry if nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler serves the given registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func ObserveDecision(action, resource, outcome string, took time.Duration) {
	AuthzDecisions.WithLabelValues(action, resource, outcome).Inc()
	if took > 0 {
		AuthzLatency.WithLabelValues(outcome).Observe(took.Seconds())
	}
}

func ObserveDispatch(operation, outcome string, took time.Duration) {
	Dispatches.WithLabelValues(operation, outcome).Inc()
	if took > 0 {
		DispatchLatency.WithLabelValues(operation).Observe(took.Seconds())
	}
}
