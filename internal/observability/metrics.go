package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the resolver.
type Metrics struct {
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	RegistrySize       prometheus.Gauge
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	RateLimitedTotal   prometheus.Counter
	NavigationDepth    prometheus.Gauge
}

// Resolution outcome label values.
const (
	OutcomeMatched     = "matched"
	OutcomeNoMatch     = "no_match"
	OutcomeDenied      = "denied"
	OutcomeRateLimited = "rate_limited"
)

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton metrics instance, registering the
// collectors on first use.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			ResolutionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "navlink",
					Subsystem: "resolver",
					Name:      "resolutions_total",
					Help:      "Total number of deep-link resolutions by outcome",
				},
				[]string{"outcome"},
			),
			ResolutionDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "navlink",
					Subsystem: "resolver",
					Name:      "resolution_duration_seconds",
					Help:      "Deep-link resolution latency",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"outcome"},
			),
			RegistrySize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "navlink",
					Subsystem: "registry",
					Name:      "routes",
					Help:      "Current number of registered route definitions",
				},
			),
			CacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "navlink",
					Subsystem: "cache",
					Name:      "hits_total",
					Help:      "Total number of resolution cache hits",
				},
			),
			CacheMissesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "navlink",
					Subsystem: "cache",
					Name:      "misses_total",
					Help:      "Total number of resolution cache misses",
				},
			),
			RateLimitedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "navlink",
					Subsystem: "resolver",
					Name:      "rate_limited_total",
					Help:      "Total number of resolutions rejected by the rate limiter",
				},
			),
			NavigationDepth: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "navlink",
					Subsystem: "navigation",
					Name:      "stack_depth",
					Help:      "Current navigation stack depth",
				},
			),
		}
	})
	return metricsInstance
}
