// Package metrics exposes Prometheus collectors for the preview service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	previewJobsTotal           *prometheus.CounterVec
	previewResolutionsTotal    *prometheus.CounterVec
	previewCacheLookupsTotal   *prometheus.CounterVec
	upstreamRequestsTotal      *prometheus.CounterVec
	browserRendersTotal        *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		previewJobsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_jobs_total",
				Help: "Total number of preview jobs processed, labeled by result status.",
			},
			[]string{"status"},
		)

		previewResolutionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_resolutions_total",
				Help: "Total number of resolutions, labeled by resource kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		previewCacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_cache_lookups_total",
				Help: "Total number of cache lookups, labeled by hit/miss.",
			},
			[]string{"result"},
		)

		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_upstream_requests_total",
				Help: "Total number of upstream API requests, labeled by endpoint and status code.",
			},
			[]string{"endpoint", "code"},
		)

		browserRendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_browser_renders_total",
				Help: "Total number of headless browser renders, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveJob increments the job counter for the given result status.
func ObserveJob(status string) {
	Init()
	previewJobsTotal.WithLabelValues(status).Inc()
}

// ObserveResolution increments the resolution counter for a resource kind.
func ObserveResolution(kind, outcome string) {
	Init()
	previewResolutionsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveCacheLookup increments the cache hit/miss counter.
func ObserveCacheLookup(hit bool) {
	Init()
	result := "miss"
	if hit {
		result = "hit"
	}
	previewCacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveUpstreamRequest increments the upstream request counter.
func ObserveUpstreamRequest(endpoint string, code int) {
	Init()
	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// ObserveBrowserRender increments the headless render counter.
func ObserveBrowserRender(outcome string) {
	Init()
	browserRendersTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
