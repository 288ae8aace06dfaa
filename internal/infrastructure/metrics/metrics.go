package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the lookup bot
type Metrics struct {
	// Lookup pipeline metrics
	LookupsTotal       *prometheus.CounterVec
	LookupDuration     prometheus.Histogram
	ValidationFailures prometheus.Counter
	ThrottledRequests  prometheus.Counter

	// Chat command metrics
	CommandsTotal *prometheus.CounterVec

	// History metrics
	HistoryEntries     prometheus.Gauge
	HistoryWriteErrors prometheus.Counter

	// Event publishing metrics
	EventPublishErrors prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered on the default registry.
// Use GetDefaultMetrics outside of it; a second call panics on duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		LookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tg_finding_lookups_total",
				Help: "Total number of profile lookups by outcome and source",
			},
			[]string{"outcome", "source"},
		),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tg_finding_lookup_duration_seconds",
			Help:    "Duration of remote profile fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tg_finding_validation_failures_total",
			Help: "Total number of queries rejected by the handle validator",
		}),
		ThrottledRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tg_finding_throttled_requests_total",
			Help: "Total number of lookups rejected by the per-user throttle",
		}),
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tg_finding_commands_total",
				Help: "Total number of chat commands handled",
			},
			[]string{"command"},
		),
		HistoryEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tg_finding_history_entries",
			Help: "Current number of entries kept in the search history",
		}),
		HistoryWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tg_finding_history_write_errors_total",
			Help: "Total number of failed durable history writes",
		}),
		EventPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tg_finding_event_publish_errors_total",
			Help: "Total number of lookup events that failed to publish",
		}),
	}
}

// RecordLookup records a finished remote fetch
func (m *Metrics) RecordLookup(outcome, source string, duration float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.LookupsTotal.WithLabelValues(outcome, source).Inc()
	m.LookupDuration.Observe(duration)
}

// RecordValidationFailure records a query rejected before fetching
func (m *Metrics) RecordValidationFailure() {
	m.ValidationFailures.Inc()
}

// RecordThrottled records a lookup rejected by the throttle
func (m *Metrics) RecordThrottled() {
	m.ThrottledRequests.Inc()
}

// RecordCommand records a handled chat command
func (m *Metrics) RecordCommand(command string) {
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// SetHistoryEntries updates the history size gauge
func (m *Metrics) SetHistoryEntries(count int) {
	m.HistoryEntries.Set(float64(count))
}

// RecordHistoryWriteError records a failed durable history write
func (m *Metrics) RecordHistoryWriteError() {
	m.HistoryWriteErrors.Inc()
}

// RecordEventPublishError records a failed lookup event publish
func (m *Metrics) RecordEventPublishError() {
	m.EventPublishErrors.Inc()
}
