// Package metrics exposes Prometheus counters for logins, upstream provider
// calls and document-store operations, plus the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_logins_total",
		Help: "Successful OAuth callback logins",
	})

	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hub_provider_requests_total",
		Help: "Upstream provider requests by provider and outcome",
	}, []string{"provider", "outcome"})

	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hub_provider_request_seconds",
		Help:    "Upstream provider request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hub_store_errors_total",
		Help: "Document store failures by operation",
	}, []string{"op"})
)

// IncLogin increments the successful-login counter.
func IncLogin() {
	loginsTotal.Inc()
}

// ObserveProviderRequest records one upstream provider round trip.
func ObserveProviderRequest(provider string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	providerRequests.WithLabelValues(provider, outcome).Inc()
	providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// IncStoreError records a document store failure for the given operation.
func IncStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
