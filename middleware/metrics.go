package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zen-rs/skyzen/core/handler"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Namespace is the metrics namespace (default: "skyzen").
	Namespace string

	// Subsystem is the metrics subsystem (default: "http").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// httpMetrics holds the per-router metric vectors.
type httpMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
	responseSize    *prometheus.HistogramVec
}

func newHTTPMetrics(cfg MetricsConfig) *httpMetrics {
	factory := promauto.With(cfg.Registry)

	return &httpMetrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests processed",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"method", "path"}),

		requestsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_active",
			Help:        "Number of requests currently being handled",
			ConstLabels: cfg.ConstLabels,
		}),

		responseSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "response_size_bytes",
			Help:        "HTTP response body size in bytes",
			ConstLabels: cfg.ConstLabels,
			Buckets:     []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576},
		}, []string{"method", "path"}),
	}
}

// Metrics creates a Prometheus metrics middleware with default configuration.
func Metrics[C handler.Context]() handler.Middleware[C] {
	return MetricsWithConfig[C](MetricsConfig{})
}

// MetricsWithConfig creates a Prometheus metrics middleware. Requests are
// labeled by method, raw path, and final status code. Expose the registry
// with promhttp.Handler on a separate route.
func MetricsWithConfig[C handler.Context](cfg MetricsConfig) handler.Middleware[C] {
	if cfg.Namespace == "" {
		cfg.Namespace = "skyzen"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "http"
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	m := newHTTPMetrics(cfg)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			method := req.Method
			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			m.requestsActive.Inc()
			start := time.Now()

			resp := next(ctx)
			if resp == nil {
				m.requestsActive.Dec()
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
				err := resp(wrapped, r)

				m.requestsActive.Dec()
				m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
				m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(wrapped.statusCode)).Inc()
				m.responseSize.WithLabelValues(method, path).Observe(float64(wrapped.size))

				return err
			}
		}
	}
}
