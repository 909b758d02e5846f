package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rowsComputed *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastClose    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rowsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magintel_rows_computed_total",
				Help: "Total number of rows computed per pipeline stage",
			},
			[]string{"stage", "ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magintel_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "magintel_last_close",
				Help: "Last adjusted close seen for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "magintel_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRowsComputed records rows produced by a pipeline stage for a ticker.
func (r *Recorder) RecordRowsComputed(stage, ticker string, n int) {
	r.rowsComputed.WithLabelValues(stage, ticker).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last adjusted close for a ticker.
func (r *Recorder) RecordLastClose(ticker string, price float64) {
	r.lastClose.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
