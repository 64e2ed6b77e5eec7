package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels use the registered route, not the raw URL, to bound cardinality.
var (
	httpReqs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	httpLat = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "Current number of in-flight HTTP requests.",
	})

	httpRespSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_response_size_bytes",
		Help: "Size of HTTP responses in bytes.",
		Buckets: []float64{
			200, 500, 1 << 10, 2 << 10, 5 << 10,
			10 << 10, 25 << 10, 50 << 10,
			100 << 10, 250 << 10, 500 << 10,
			1 << 20, 2 << 20, 5 << 20,
		},
	}, []string{"method", "path"})
)

// Metrics instruments requests with Prometheus. It must run inside Logger so
// that handler errors have already been rendered when the status is read.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpInflight.Inc()
			defer httpInflight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			path := routePath(c)
			httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			httpRespSize.WithLabelValues(method, path).Observe(float64(c.Response().Size))
			return nil
		}
	}
}
