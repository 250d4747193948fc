package metrics

import (
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// PrivacyLeaksTotal counts recorded privacy-leak access-log rows by leak type.
	PrivacyLeaksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_leaks_total",
			Help: "Total number of access-log entries flagged as privacy leaks",
		},
		[]string{"leak_type"},
	)

	// ScraperRunning is 1 while the harvest simulator is running.
	ScraperRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_running",
			Help: "Whether the scraper simulation is currently running",
		},
	)

	// ScraperRunsTotal counts scraper runs finished by outcome (completed, canceled, error).
	ScraperRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_runs_total",
			Help: "Total number of scraper runs finished by outcome",
		},
		[]string{"outcome"},
	)
)

var numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, PrivacyLeaksTotal, ScraperRunning, ScraperRunsTotal)
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/users/123 -> /api/users/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLeak counts one privacy-leak access-log row.
func RecordLeak(leakType string) {
	PrivacyLeaksTotal.WithLabelValues(leakType).Inc()
}
