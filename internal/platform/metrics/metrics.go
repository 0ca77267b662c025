package metrics

import (
	"net/http"
	"sync"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for ledger operations.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Mutating ledger operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	ledgerCoins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_coins_moved_total",
			Help: "Coins moved by committed ledger entries, by entry kind.",
		},
		[]string{"kind"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_notifications_total",
			Help: "Notifications by delivery result (sent, failed, dropped).",
		},
		[]string{"result"},
	)

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	registerOnce sync.Once
)

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ledgerOperations, ledgerCoins, notifications, httpInFlight, httpRequestDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOperation records the outcome of a mutating ledger operation. Client-side
// failures count as rejected, anything else as error.
func ObserveOperation(operation string, err error) {
	ledgerOperations.WithLabelValues(operation, classify(err)).Inc()
}

// AddCoins records value moved by a committed entry.
func AddCoins(kind string, amount float64) {
	ledgerCoins.WithLabelValues(kind).Add(amount)
}

// NotificationResult records a notification delivery result.
func NotificationResult(result string) {
	notifications.WithLabelValues(result).Inc()
}

// HTTPStarted and HTTPFinished bracket a request.
func HTTPStarted() { httpInFlight.Inc() }

func HTTPFinished(method, route, status string, seconds float64) {
	httpInFlight.Dec()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case apperrors.IsClientError(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
