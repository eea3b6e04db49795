package usecase

import (
	"context"

	"github.com/agrirent/rental-order-service/internal/domain"
)

// Metric recording is best effort and tolerates a nil Metrics field so unit
// tests can run without a prometheus registry.

func (uc *DefaultOrderUsecase) ownerLabel(ctx context.Context, equipmentID string) string {
	equipment, err := uc.GetEquipmentByID(ctx, equipmentID)
	if err != nil {
		return "unknown"
	}
	return equipment.OwnerID
}

func (uc *DefaultOrderUsecase) recordOrderCreated(ctx context.Context, order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.OrdersCreatedTotal.WithLabelValues(uc.ownerLabel(ctx, order.EquipmentID)).Inc()
}

func (uc *DefaultOrderUsecase) recordOrderAccepted(ctx context.Context, order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.OrdersAcceptedTotal.WithLabelValues(uc.ownerLabel(ctx, order.EquipmentID)).Inc()
}

func (uc *DefaultOrderUsecase) recordOrderRejected(ctx context.Context, order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.OrdersRejectedTotal.WithLabelValues(uc.ownerLabel(ctx, order.EquipmentID)).Inc()
}

func (uc *DefaultOrderUsecase) recordOrderCompleted(ctx context.Context, order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.OrdersCompletedTotal.WithLabelValues(uc.ownerLabel(ctx, order.EquipmentID)).Inc()
	amount, _ := order.TotalAmount.Float64()
	uc.Metrics.OrderAmountTotal.WithLabelValues(string(domain.StatusCompleted)).Add(amount)
}

func (uc *DefaultOrderUsecase) recordOrderCancelled(order *domain.Order, reason string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.OrdersCancelledTotal.WithLabelValues(reason).Inc()
	amount, _ := order.TotalAmount.Float64()
	uc.Metrics.OrderAmountTotal.WithLabelValues(string(domain.StatusCancelled)).Add(amount)
}

func (uc *DefaultOrderUsecase) recordPaymentConfirmed(order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.PaymentsConfirmedTotal.Inc()
}

func (uc *DefaultOrderUsecase) recordConflict(operation string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.TransitionConflictsTotal.WithLabelValues(operation).Inc()
}

func (uc *DefaultOrderUsecase) recordSweepItem(action string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.SweepItemsTotal.WithLabelValues(action).Inc()
}

func (uc *DefaultOrderUsecase) recordSweepError() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.SweepErrorsTotal.Inc()
}
