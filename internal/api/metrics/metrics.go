// Package metrics defines and registers all custom Prometheus metrics for the
// construction-system API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "construction"

// DocumentsCreatedTotal counts financial documents created.
// Label:
//   - kind: "payment" or "expense"
var DocumentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_created_total",
		Help:      "Total number of financial documents created, by kind.",
	},
	[]string{"kind"},
)

// PaymentsReconciledTotal counts payment rows whose derived status was
// persisted by the reconciliation step.
var PaymentsReconciledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_reconciled_total",
		Help:      "Total number of payment status reconciliations persisted.",
	},
)

// RemindersSentTotal counts reminder notifications delivered.
var RemindersSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Total number of payment reminder notifications delivered.",
	},
)

// RemindersFailedTotal counts reminder deliveries that failed. Failures are
// per-recipient and never abort the fan-out.
var RemindersFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_failed_total",
		Help:      "Total number of payment reminder deliveries that failed.",
	},
)

// ReceiptsRenderedTotal counts PDF receipts rendered.
var ReceiptsRenderedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_rendered_total",
		Help:      "Total number of payment receipts rendered.",
	},
)
