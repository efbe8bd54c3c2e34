package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_recorded_total",
			Help: "Ledger transactions recorded, by type",
		},
		[]string{"txn_type"},
	)

	InvoicesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_issued_total",
			Help: "Invoices created",
		},
	)

	StockMovements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "Stock ledger movements recorded, by movement type",
		},
		[]string{"movement_type"},
	)

	ClassifierCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_calls_total",
			Help: "Transaction classifier calls, by outcome",
		},
		[]string{"outcome"},
	)

	StatementCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statement_cache_requests_total",
			Help: "Statement cache lookups, by result",
		},
		[]string{"result"},
	)
)
