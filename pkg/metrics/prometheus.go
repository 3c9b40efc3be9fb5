package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	dispatchTotal *prometheus.CounterVec
	staleTotal    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockvstrend_fetch_total",
				Help: "Provider fetches by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockvstrend_fetch_duration_seconds",
				Help:    "Provider fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		dispatchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockvstrend_dispatch_total",
				Help: "Channel dispatches started",
			},
			[]string{"channel"},
		),
		staleTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockvstrend_stale_results_total",
				Help: "Fetch results discarded because a newer dispatch superseded them",
			},
			[]string{"channel"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockvstrend_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one completed fetch.
func (r *Recorder) RecordFetch(channel, outcome string, seconds float64) {
	r.fetchTotal.WithLabelValues(channel, outcome).Inc()
	r.fetchDuration.WithLabelValues(channel).Observe(seconds)
}

func (r *Recorder) RecordDispatch(channel string) {
	r.dispatchTotal.WithLabelValues(channel).Inc()
}

func (r *Recorder) RecordStale(channel string) {
	r.staleTotal.WithLabelValues(channel).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Noop discards all measurements.
type Noop struct{}

func (Noop) RecordFetch(string, string, float64) {}
func (Noop) RecordDispatch(string)               {}
func (Noop) RecordStale(string)                  {}
func (Noop) RecordError(string)                  {}
