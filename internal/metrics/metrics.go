package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manzil",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manzil",
			Name:      "booking_conflict_total",
			Help:      "Count of bookings rejected due to date overlap.",
		},
	)

	receiptGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manzil",
			Name:      "receipt_generated_total",
			Help:      "Count of receipt documents generated.",
		},
	)

	expenseRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manzil",
			Name:      "expense_recorded_total",
			Help:      "Count of expenses recorded.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manzil",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflict, receiptGenerated, expenseRecorded, httpRequests)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncReceiptGenerated() {
	receiptGenerated.Inc()
}

func IncExpenseRecorded() {
	expenseRecorded.Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
