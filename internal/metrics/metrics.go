// Package metrics defines the Prometheus metrics of the family tree server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	CensusRows           *prometheus.CounterVec
	BlockRenders         *prometheus.CounterVec
	SettingsCacheLookups *prometheus.CounterVec
	HousekeepingDeleted  *prometheus.CounterVec
	HousekeepingRuns     prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CensusRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_census_rows_total",
			Help: "Census report rows generated, by census.",
		}, []string{"census"}),
		BlockRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_block_renders_total",
			Help: "Dashboard blocks rendered, by module.",
		}, []string{"module"}),
		SettingsCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_settings_cache_lookups_total",
			Help: "Settings cache lookups, by result (hit or miss).",
		}, []string{"result"}),
		HousekeepingDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_housekeeping_deleted_total",
			Help: "Items removed by housekeeping, by kind.",
		}, []string{"kind"}),
		HousekeepingRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "familytree_housekeeping_runs_total",
			Help: "Housekeeping passes started.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familytree_http_request_duration_seconds",
			Help:    "HTTP request latency, by route pattern and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// CacheHit records a settings cache lookup.
func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SettingsCacheLookups.WithLabelValues(result).Inc()
}

// Deleted records housekeeping removals.
func (m *Metrics) Deleted(kind string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.HousekeepingDeleted.WithLabelValues(kind).Add(float64(n))
}

// Middleware observes request latency labelled by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
