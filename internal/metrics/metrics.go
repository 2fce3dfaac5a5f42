package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowns",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crowns",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowns",
			Subsystem: "accounts",
			Name:      "registrations_total",
			Help:      "Accounts created, by role and initial status.",
		},
		[]string{"role", "status"},
	)

	ledgerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowns",
			Subsystem: "ledger",
			Name:      "events_total",
			Help:      "Ledger events appended, by kind.",
		},
		[]string{"kind"},
	)

	crownsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowns",
			Subsystem: "ledger",
			Name:      "crowns_total",
			Help:      "Crowns purchased or withdrawn.",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		registrations,
		ledgerEvents,
		crownsMoved,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordRegistration counts a new account.
func RecordRegistration(role, status string) {
	registrations.WithLabelValues(role, status).Inc()
}

// RecordLedgerEvent counts an appended event and the crowns it moved.
func RecordLedgerEvent(kind string, crowns int64) {
	ledgerEvents.WithLabelValues(kind).Inc()
	crownsMoved.WithLabelValues(kind).Add(float64(crowns))
}
