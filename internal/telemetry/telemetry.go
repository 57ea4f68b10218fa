// Package telemetry defines the Prometheus metrics for the extraction service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emailsift_extractions_total",
			Help: "Total number of extraction requests, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	emailsFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emailsift_emails_found_total",
			Help: "Total number of emails returned across all extractions.",
		},
	)

	fetchedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emailsift_fetched_bytes_total",
			Help: "Total number of page bytes fetched.",
		},
	)

	extractionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "emailsift_extraction_duration_seconds",
			Help:    "Histogram of end-to-end extraction latencies.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emailsift_http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emailsift_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emailsift_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		},
	)
)

// ObserveExtraction records one pipeline run.
func ObserveExtraction(outcome string, emails int, duration time.Duration) {
	extractionsTotal.WithLabelValues(outcome).Inc()
	emailsFoundTotal.Add(float64(emails))
	extractionDurationSeconds.Observe(duration.Seconds())
}

// AddFetchedBytes records the size of a fetched page.
func AddFetchedBytes(n int) {
	fetchedBytesTotal.Add(float64(n))
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncRateLimited records a request rejected with 429.
func IncRateLimited() {
	rateLimitedTotal.Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
