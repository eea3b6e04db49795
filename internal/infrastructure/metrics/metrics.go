package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics carries all prometheus instruments for the rental lifecycle.
type OrderMetrics struct {
	OrdersCreatedTotal   prometheus.CounterVec
	OrdersAcceptedTotal  prometheus.CounterVec
	OrdersRejectedTotal  prometheus.CounterVec
	OrdersCompletedTotal prometheus.CounterVec
	OrdersCancelledTotal prometheus.CounterVec

	OrderAmountTotal prometheus.CounterVec

	PaymentsConfirmedTotal      prometheus.Counter
	CallbackVerifyFailuresTotal prometheus.Counter

	SweepDuration    prometheus.Histogram
	SweepItemsTotal  prometheus.CounterVec
	SweepErrorsTotal prometheus.Counter

	TransitionConflictsTotal prometheus.CounterVec
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		OrdersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_orders_created_total",
				Help: "Orders created, by equipment owner",
			},
			[]string{"owner_id"},
		),
		OrdersAcceptedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_orders_accepted_total",
				Help: "Orders accepted by providers",
			},
			[]string{"owner_id"},
		),
		OrdersRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_orders_rejected_total",
				Help: "Orders rejected by providers",
			},
			[]string{"owner_id"},
		),
		OrdersCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_orders_completed_total",
				Help: "Orders completed and equipment returned",
			},
			[]string{"owner_id"},
		),
		OrdersCancelledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_orders_cancelled_total",
				Help: "Orders cancelled, by reason (actor, payment_timeout)",
			},
			[]string{"reason"},
		),
		OrderAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_order_amount_total",
				Help: "Total order amount by final status",
			},
			[]string{"status"},
		),
		PaymentsConfirmedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rental_payments_confirmed_total",
				Help: "Gateway payments confirmed through reconciliation",
			},
		),
		CallbackVerifyFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rental_callback_verify_failures_total",
				Help: "Gateway callbacks rejected on signature verification",
			},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rental_sweep_duration_seconds",
				Help:    "Duration of one expiration sweep tick",
				Buckets: prometheus.DefBuckets,
			},
		),
		SweepItemsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_sweep_items_total",
				Help: "Orders acted on by the sweeper, by action",
			},
			[]string{"action"},
		),
		SweepErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rental_sweep_errors_total",
				Help: "Per-item sweeper failures that were skipped",
			},
		),
		TransitionConflictsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rental_transition_conflicts_total",
				Help: "Optimistic-concurrency conflicts by operation",
			},
			[]string{"operation"},
		),
	}
}
