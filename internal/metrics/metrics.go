package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Optimizer metrics
	OptimizeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_optimizer_requests_total",
			Help: "Total number of optimisation requests",
		},
		[]string{"side", "status"},
	)

	OptimizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_optimizer_duration_seconds",
			Help:    "Optimisation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"side"},
	)

	SearchSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_optimizer_search_steps",
		Help:    "Partial paths visited by the path search per request",
		Buckets: prometheus.ExponentialBuckets(32, 2, 12),
	})

	PathsConsidered = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_optimizer_paths_considered",
		Help:    "Per-source paths left after pruning",
		Buckets: []float64{1, 2, 4, 8, 16, 32},
	})

	FallbackAdopted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_optimizer_fallback_adopted_total",
		Help: "Total number of results carrying a fallback path",
	})

	MultiHopWins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_optimizer_multihop_wins_total",
		Help: "Total number of results settled through a two-hop route",
	})

	// Report store metrics
	ReportsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_optimizer_reports_saved_total",
			Help: "Total number of quote reports saved",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_optimizer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_optimizer_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
