// internal/app/system/metrics/metrics.go
//
// Package metrics exposes Prometheus collectors for collection persistence,
// data-file drift and HTTP traffic.
package metrics

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace       = "taskhub"
	collectionLabel = "collection"
	resultLabel     = "result"
)

// Metrics holds every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	persistTotal    *prometheus.CounterVec
	persistSeconds  *prometheus.HistogramVec
	documentBytes   *prometheus.GaugeVec
	driftTotal      *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers the Go and process collectors
// next to them.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		persistTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_total",
			Help:      "Number of collection writes to disk, by result.",
		}, []string{collectionLabel, resultLabel}),
		persistSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_seconds",
			Help:      "Time spent encoding and writing a collection file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{collectionLabel}),
		documentBytes: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "document_bytes",
			Help:      "Size of the last successfully written collection file.",
		}, []string{collectionLabel}),
		driftTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "external_changes_total",
			Help:      "Number of times a collection file changed on disk outside the process.",
		}, []string{collectionLabel}),
		requestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests handled, by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}, nil
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Persisted records one collection write. It satisfies docstore.Observer.
func (m *Metrics) Persisted(path string, size int, elapsed time.Duration, err error) {
	c := Collection(path)
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistTotal.WithLabelValues(c, result).Inc()
	m.persistSeconds.WithLabelValues(c).Observe(elapsed.Seconds())
	if err == nil {
		m.documentBytes.WithLabelValues(c).Set(float64(size))
	}
}

// ExternalChange records that path was modified by someone else.
func (m *Metrics) ExternalChange(path string) {
	m.driftTotal.WithLabelValues(Collection(path)).Inc()
}

// Middleware counts requests by chi route pattern so ids do not explode the
// label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Collection derives the collection label from a data file path:
// "/srv/db/users.json" becomes "users".
func Collection(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
