package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created",
		},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_seats_reserved_total",
			Help: "Seats reserved by successful bookings",
		},
	)

	bookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Bookings cancelled by their owners",
		},
	)

	bookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Booking attempts rejected by a business rule",
		},
		[]string{"reason"},
	)

	seatsReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_booked_seats_reconciled_total",
			Help: "Events whose booked seat counter was repaired",
		},
	)
)

const (
	RejectPastEvent      = "past_event"
	RejectNotEnoughSeats = "not_enough_seats"
	RejectNotFound       = "not_found"
)

func ObserveRequest(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func BookingCreated(seats int) {
	bookingsCreated.Inc()
	seatsBooked.Add(float64(seats))
}

func BookingCancelled() {
	bookingsCancelled.Inc()
}

func BookingRejected(reason string) {
	bookingsRejected.WithLabelValues(reason).Inc()
}

func SeatsReconciled(n int64) {
	seatsReconciled.Add(float64(n))
}
