package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Latency of analysis operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Analysis failures by kind and fault",
		},
		[]string{"kind", "fault"},
	)

	ModelTrainings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Subsystem: "analysis",
			Name:      "model_trainings_total",
			Help:      "Forecast model trainings by cache outcome",
		},
		[]string{"outcome"},
	)

	ResponseCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Subsystem: "analysis",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"endpoint", "outcome"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysisLatency, AnalysisErrors, ModelTrainings, ResponseCache)
	})
}
