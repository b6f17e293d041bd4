package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the Prometheus-backed implementation of the domain Metrics
// interface.
type Recorder struct {
	forwards  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	lastPrice *prometheus.GaugeVec
	latency   *prometheus.HistogramVec
}

// New registers the CoinPulse collectors on the default registry.
func New() *Recorder {
	r := &Recorder{}
	r.forwards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinpulse_forward_requests_total",
		Help: "Analysis requests forwarded to computation units, by outcome",
	}, []string{"unit", "outcome"})
	r.errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinpulse_errors_total",
		Help: "Operation errors by kind",
	}, []string{"type"})
	r.lastPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coinpulse_last_price",
		Help: "Most recent close observed per symbol",
	}, []string{"symbol"})
	r.latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coinpulse_operation_duration_seconds",
		Help:    "Gateway operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	return r
}

// RecordForward counts one forwarded analysis request and its outcome.
func (r *Recorder) RecordForward(unit, outcome string) {
	r.forwards.WithLabelValues(unit, outcome).Inc()
}

// RecordError counts one failed operation.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordLastPrice tracks the latest close returned for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency observes one operation duration.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
