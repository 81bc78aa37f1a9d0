package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "party2book",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	changeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "party2book",
			Name:      "booking_change_requests_total",
			Help:      "Booking change request submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

// Change request submission outcomes.
const (
	OutcomeAccepted       = "accepted"
	OutcomePaymentPending = "payment_pending"
	OutcomeValidation     = "validation_failed"
	OutcomePrecondition   = "precondition_failed"
	OutcomeConflict       = "conflict"
	OutcomeError          = "error"
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, changeRequests)
	})
}

func IncHTTP(method, path, status string) {
	httpRequests.WithLabelValues(method, path, status).Inc()
}

func IncChangeRequest(outcome string) {
	changeRequests.WithLabelValues(outcome).Inc()
}
