package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rental", Name: "bookings_created_total",
		Help: "Total number of bookings created",
	})
	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rental", Name: "booking_conflicts_total",
		Help: "Total number of booking attempts rejected for date conflicts",
	})
	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rental", Name: "booking_status_transitions_total",
			Help: "Total booking status transitions",
		},
		[]string{"from", "to"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rental", Name: "http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rental", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
