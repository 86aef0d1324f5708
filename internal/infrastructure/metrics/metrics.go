package metrics

import (
	"net/http"
	"strconv"
	"time"

	"metalprice-service/internal/application"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ application.Metrics = (*Collector)(nil)

// Collector owns its registry so several instances (tests) do not collide.
type Collector struct {
	reg *prometheus.Registry

	lookups         *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		reg: reg,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metalprice_lookups_total",
			Help: "Price detail lookups by outcome (hit, fresh, fallback, rejected, error)",
		}, []string{"outcome"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		c.lookups,
		c.requestsTotal,
		c.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ObserveLookup(outcome string) {
	c.lookups.WithLabelValues(outcome).Inc()
}

func (c *Collector) Lookups() *prometheus.CounterVec { return c.lookups }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware records request counts and latency labelled by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		path := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		c.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
