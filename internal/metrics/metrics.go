package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dashboard service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Feed Metrics
	FeedFetchesTotal   prometheus.CounterVec
	ProxyAttemptsTotal prometheus.CounterVec
	RefreshDuration    prometheus.HistogramVec
	RefreshDropped     prometheus.CounterVec

	// Parse Metrics
	SpotsParsedTotal  prometheus.Counter
	SpotsDroppedTotal prometheus.Counter
	ParseErrorsTotal  prometheus.CounterVec

	// Event Bus Metrics
	EventsPublishedTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hamdash_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hamdash_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Feed Metrics
		FeedFetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_feed_fetches_total",
				Help: "Upstream feed fetch attempts by data source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ProxyAttemptsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_proxy_attempts_total",
				Help: "Individual CORS proxy attempts by outcome",
			},
			[]string{"outcome"},
		),
		RefreshDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hamdash_refresh_duration_seconds",
				Help:    "End-to-end refresh cycle duration by data source",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
		RefreshDropped: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_refresh_dropped_total",
				Help: "Refresh requests dropped because one was already in flight",
			},
			[]string{"source"},
		),

		// Parse Metrics
		SpotsParsedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hamdash_spots_parsed_total",
				Help: "ADIF records accepted as spots",
			},
		),
		SpotsDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hamdash_spots_dropped_total",
				Help: "ADIF records dropped for missing fields or bad values",
			},
		),
		ParseErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_parse_errors_total",
				Help: "Document-level parse failures by data source",
			},
			[]string{"source"},
		),

		// Event Bus Metrics
		EventsPublishedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hamdash_events_published_total",
				Help: "Events published on the in-process bus by topic",
			},
			[]string{"topic"},
		),
	}
}
