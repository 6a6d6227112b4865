package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsReserved counts tickets created by successful reservations.
	TicketsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evento_tickets_reserved_total",
		Help: "Number of tickets reserved.",
	})

	// PaymentsRecorded counts completed payment records.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evento_payments_recorded_total",
		Help: "Number of payments recorded.",
	})

	// Verifications counts admission decisions by outcome: accepted,
	// already_used, expired, not_paid, invalid_code.
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evento_verifications_total",
		Help: "Number of ticket verification attempts by result.",
	}, []string{"result"})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evento_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
