package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpulse_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	responseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinpulse_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{200, 500, 1_000, 2_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
		},
		[]string{"route", "method"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinpulse_http_in_flight_requests",
			Help: "Requests currently being served",
		},
	)
)

// Metrics instruments every request. Labels use echo's route template, not
// the raw URL, so per-symbol paths cannot blow up cardinality. Requests
// slower than slowThreshold are also logged as warnings.
func Metrics(slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inFlight.Inc()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			inFlight.Dec()

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			requestsTotal.WithLabelValues(route, method, status).Inc()
			requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
			responseSize.WithLabelValues(route, method).Observe(float64(c.Response().Size))

			if slowThreshold > 0 && elapsed >= slowThreshold {
				log.Warn().
					Str("route", route).
					Str("method", method).
					Str("status", status).
					Dur("latency", elapsed).
					Msg("slow request")
			}
			return err
		}
	}
}
