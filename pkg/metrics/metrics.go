// Package metrics exposes the Prometheus instrumentation for the return
// engine: chart production counters, solver iteration cost and oracle
// cache effectiveness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "returncast"

var (
	chartsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "charts_computed_total",
		Help:      "Return charts produced, by solved body.",
	}, []string{"body"})

	solveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "solve_failures_total",
		Help:      "Failed return generations, by error category.",
	}, []string{"category"})

	solverIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "solver_iterations",
		Help:      "Newton-Raphson iterations consumed per successful solve.",
		Buckets:   prometheus.LinearBuckets(1, 2, 12),
	}, []string{"body"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_cache_hits_total",
		Help:      "Position oracle cache hits.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_cache_misses_total",
		Help:      "Position oracle cache misses.",
	})
)

// RecordChart counts a successfully produced return chart.
func RecordChart(body string) {
	chartsComputed.WithLabelValues(body).Inc()
}

// RecordSolveFailure counts a failed return generation.
func RecordSolveFailure(category string) {
	solveFailures.WithLabelValues(category).Inc()
}

// ObserveSolverIterations records the iteration cost of a solve.
func ObserveSolverIterations(body string, iterations int) {
	solverIterations.WithLabelValues(body).Observe(float64(iterations))
}

// RecordCacheHit counts an oracle cache hit.
func RecordCacheHit() { cacheHits.Inc() }

// RecordCacheMiss counts an oracle cache miss.
func RecordCacheMiss() { cacheMisses.Inc() }
