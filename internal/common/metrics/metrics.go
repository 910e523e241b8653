package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqarna_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aqarna_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ListingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqarna_listing_events_total",
			Help: "Listing page state transitions by event",
		},
		[]string{"event"},
	)

	FilteredResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aqarna_filtered_results",
			Help:    "Size of the filtered property set per derivation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	UnmappableProperties = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aqarna_unmappable_properties_total",
			Help: "Properties withheld from the map because of invalid coordinates",
		},
	)

	LeadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqarna_leads_submitted_total",
			Help: "Lead submissions by outcome and delivery mode",
		},
		[]string{"outcome", "mode"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aqarna_active_sessions",
			Help: "Listing page sessions held by the in-memory store",
		},
	)

	SessionStorePool = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aqarna_session_store_pool_connections",
			Help: "Redis session store connections by state",
		},
		[]string{"state"},
	)
)
