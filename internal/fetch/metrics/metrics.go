package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fetch layer.
type Metrics struct {
	// Cache outcomes by result ("hit", "miss")
	CacheLookups *prometheus.CounterVec

	// Backoff retries after upstream rate limiting
	Retries prometheus.Counter

	// Latency of individual upstream calls
	UpstreamLatency prometheus.Histogram
}

// New creates a Metrics instance with all fetch layer metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouch_fetch_cache_lookups_total",
			Help: "Total response cache lookups by result",
		}, []string{"result"}),

		Retries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_fetch_retries_total",
			Help: "Total backoff retries after upstream rate limiting",
		}),

		UpstreamLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vouch_fetch_upstream_duration_seconds",
			Help:    "Duration of individual upstream calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementCacheHit records a cache hit.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

// IncrementCacheMiss records a cache miss.
func (m *Metrics) IncrementCacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

// IncrementRetry records one backoff retry.
func (m *Metrics) IncrementRetry() {
	if m != nil {
		m.Retries.Inc()
	}
}

// ObserveUpstreamLatency records the duration of one upstream call.
func (m *Metrics) ObserveUpstreamLatency(d time.Duration) {
	if m != nil {
		m.UpstreamLatency.Observe(d.Seconds())
	}
}
