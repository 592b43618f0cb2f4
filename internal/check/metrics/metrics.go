package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the check pipeline.
type Metrics struct {
	// Check outcomes: "pass", "fail", or an error class
	CheckOutcome *prometheus.CounterVec

	// Per-source latency of the fan-out reads
	SourceLatency *prometheus.HistogramVec

	// Full check latency, resolution included
	CheckLatency prometheus.Histogram
}

// New creates a Metrics instance with all check pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouch_check_outcomes_total",
			Help: "Total background check outcomes",
		}, []string{"outcome"}),

		SourceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vouch_check_source_duration_seconds",
			Help:    "Duration of profile fan-out reads by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}), // source: "details", "friends", "groups"

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vouch_check_duration_seconds",
			Help:    "Duration of full background checks",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOutcome records a check outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveSourceLatency records the duration of one fan-out read.
func (m *Metrics) ObserveSourceLatency(source string, d time.Duration) {
	if m != nil {
		m.SourceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveCheckLatency records the duration of a full check.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
