// Package metrics exposes Prometheus collectors for the visualization service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Algorithm labels used with ObserveTraceSteps.
const (
	AlgorithmPrime      = "prime"
	AlgorithmBubbleSort = "bubble_sort"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	primeChecksTotal           *prometheus.CounterVec
	primeTraceTruncatedTotal   prometheus.Counter
	traceSteps                 *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		)

		primeChecksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algoviz_prime_checks_total",
				Help: "Total number of primality checks, labeled by verdict.",
			},
			[]string{"verdict"},
		)

		primeTraceTruncatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "algoviz_prime_trace_truncated_total",
				Help: "Primality checks whose trial division stopped at the step cap.",
			},
		)

		traceSteps = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "algoviz_trace_steps",
				Help:    "Number of steps recorded per trace, labeled by algorithm.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"algorithm"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePrimeCheck counts a primality verdict and whether its trace was cut
// short.
func ObservePrimeCheck(isPrime, truncated bool) {
	verdict := "composite"
	if isPrime {
		verdict = "prime"
	}
	primeChecksTotal.WithLabelValues(verdict).Inc()
	if truncated {
		primeTraceTruncatedTotal.Inc()
	}
}

// ObserveTraceSteps records the length of a trace.
func ObserveTraceSteps(algorithm string, steps int) {
	traceSteps.WithLabelValues(algorithm).Observe(float64(steps))
}
