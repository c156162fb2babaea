package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Receiver metrics
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hivesync_messages_total",
			Help: "Total number of sync messages received",
		},
		[]string{"model", "operation", "outcome"},
	)

	BatchEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hivesync_batch_entries_total",
			Help: "Total number of batch entries processed",
		},
		[]string{"model", "outcome"},
	)

	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hivesync_auth_failures_total",
			Help: "Total number of rejected unauthenticated requests",
		},
	)

	// Dispatcher metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hivesync_deliveries_total",
			Help: "Total number of dispatcher delivery attempts",
		},
		[]string{"outcome"},
	)

	QueueDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hivesync_queue_drops_total",
			Help: "Total number of dispatches dropped because the queue was full",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hivesync_queue_depth",
			Help: "Current depth of the dispatch queue",
		},
	)
)

// Delivery outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)
