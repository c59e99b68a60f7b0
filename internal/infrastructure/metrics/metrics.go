package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersInitiated prometheus.Counter
	IdempotentReplays  prometheus.Counter
	TransferAmount     prometheus.Histogram

	// Outbox metrics
	OutboxClaimed    prometheus.Counter
	OutboxOutcomes   *prometheus.CounterVec
	OutboxAttempts   prometheus.Histogram
	OutboxQueueDepth prometheus.Gauge

	// Ledger metrics
	LedgerApplies      *prometheus.CounterVec
	LedgerApplyErrors  *prometheus.CounterVec
	VersionConflicts   prometheus.Counter
	BreakerRejections  prometheus.Counter
	LedgerCallDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New(namespace string) *Metrics {
	return &Metrics{
		TransfersInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_initiated_total",
			Help:      "Total number of transfer requests accepted",
		}),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Total number of requests answered from the idempotency cache",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_amount",
			Help:      "Transfer amounts",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		OutboxClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_claimed_total",
			Help:      "Total number of outbox events claimed for dispatch",
		}),
		OutboxOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_dispatch_outcomes_total",
				Help:      "Outbox dispatch outcomes by result",
			},
			[]string{"outcome"},
		),
		OutboxAttempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_event_attempts",
			Help:      "Attempt count observed when an event reaches a terminal state",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		}),
		OutboxQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_worker_queue_depth",
			Help:      "Events waiting for a dispatch worker",
		}),

		LedgerApplies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_applies_total",
				Help:      "Ledger apply calls by result",
			},
			[]string{"result"},
		),
		LedgerApplyErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_apply_errors_total",
				Help:      "Ledger apply errors by remote code",
			},
			[]string{"code"},
		),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Optimistic concurrency conflicts detected on account updates",
		}),
		BreakerRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_rejections_total",
			Help:      "Calls rejected by the open circuit breaker",
		}),
		LedgerCallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_call_duration_seconds",
			Help:      "Duration of remote ledger apply calls",
			Buckets:   prometheus.DefBuckets,
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration by method and path",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
