package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "logins_total",
			Help:      "Sign-in attempts by outcome.",
		},
		[]string{"outcome"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "bookings_created_total",
			Help:      "Bookings created, combo items included.",
		},
	)

	comboBatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "combo_batches_total",
			Help:      "Combo batches expanded into bookings.",
		},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "exports_total",
			Help:      "Export downloads by format.",
		},
		[]string{"format"},
	)

	sheetsSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kolbook",
			Name:      "sheets_syncs_total",
			Help:      "Sheets mirror refreshes by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, logins, bookingsCreated, comboBatches, exportsTotal, sheetsSyncs)
	})
}

// IncHTTP increments the request counter for an endpoint and status label.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

func IncLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

func AddBookingsCreated(n int) {
	bookingsCreated.Add(float64(n))
}

func IncComboBatch() {
	comboBatches.Inc()
}

func IncExport(format string) {
	exportsTotal.WithLabelValues(format).Inc()
}

func IncSheetsSync(outcome string) {
	sheetsSyncs.WithLabelValues(outcome).Inc()
}
