package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	requestDurations *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	activeRequests   prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		requestDurations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_http_request_duration_seconds",
			Help:    "HTTP request duration by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "review_http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		activeRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "review_http_active_requests",
			Help: "In-flight HTTP requests.",
		}),
	}
}

func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		status := strconv.Itoa(recorder.status)
		m.requestDurations.WithLabelValues(route, r.Method, status).Observe(time.Since(started).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, status).Inc()
	})
}

// MetricsHandler serves the Prometheus scrape endpoint, typically on a
// dedicated port away from the public API.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
