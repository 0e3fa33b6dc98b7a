package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated prometheus.Counter
	EntriesUpdated prometheus.Counter
	EntriesDeleted prometheus.Counter

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransfersDeleted prometheus.Counter
	TransferAmount   prometheus.Histogram
	TransferErrors   *prometheus.CounterVec

	// Statement metrics
	StatementBatches      *prometheus.CounterVec
	StatementLines        prometheus.Counter
	StatementBatchSeconds prometheus.Histogram
	LinesRealized         prometheus.Counter

	// Balance metrics
	BalanceUpdates     *prometheus.CounterVec
	BalanceRepairs     prometheus.Counter
	BalanceDrift       prometheus.Histogram
	DiscrepanciesFound prometheus.Gauge

	// Account metrics
	AccountsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Entry metrics
		EntriesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_created_total",
			Help: "Total number of ledger entries created",
		}),
		EntriesUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_updated_total",
			Help: "Total number of ledger entries updated",
		}),
		EntriesDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),

		// Transfer metrics
		TransfersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransfersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfers_deleted_total",
			Help: "Total number of transfers deleted",
		}),
		TransferAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Statement metrics
		StatementBatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_statement_batches_total",
				Help: "Statement batches processed by outcome",
			},
			[]string{"outcome"},
		),
		StatementLines: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statement_lines_materialized_total",
			Help: "Statement lines materialized by batch processing",
		}),
		StatementBatchSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_statement_batch_duration_seconds",
			Help:    "Duration of statement batch processing",
			Buckets: prometheus.DefBuckets,
		}),
		LinesRealized: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statement_lines_realized_total",
			Help: "Statement lines realized individually",
		}),

		// Balance metrics
		BalanceUpdates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_balance_updates_total",
				Help: "Cached balance updates by maintenance path",
			},
			[]string{"path"},
		),
		BalanceRepairs: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_repairs_total",
			Help: "Cached balances overwritten by refresh",
		}),
		BalanceDrift: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_balance_drift",
			Help:    "Absolute drift observed when refreshing a balance",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000},
		}),
		DiscrepanciesFound: f.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_balance_discrepancies",
			Help: "Accounts out of tolerance at the last discrepancy scan",
		}),

		// Account metrics
		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Outbox metrics
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_events_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_publish_errors_total",
			Help: "Outbox events that failed to publish",
		}),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
