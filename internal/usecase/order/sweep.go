package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrirent/rental-order-service/internal/domain"
)

// CancelExpiredOrders cancels accepted orders whose payment window elapsed
// without a paid record, releasing the equipment. A failure on one order is
// logged and skipped; it never aborts the rest of the batch.
func (uc *DefaultOrderUsecase) CancelExpiredOrders(ctx context.Context) error {
	orders, err := uc.OrderRepo.FindPaymentExpiredOrders(ctx, uc.now())
	if err != nil {
		return fmt.Errorf("querying payment-expired orders: %w", err)
	}

	for _, order := range orders {
		if _, err := uc.CancelOrder(ctx, order.ID, domain.SystemActor); err != nil {
			uc.recordSweepError()
			slog.Error("failed to cancel expired order", "order_id", order.ID, "error", err.Error())
			continue
		}
		uc.recordSweepItem("cancel_expired")
		slog.Info("order cancelled on payment timeout", "order_id", order.ID)
	}
	return nil
}

// MarkOverdueRentals flags equipment of in-progress orders past their end
// date as PENDING_RETURN. The order itself stays IN_PROGRESS until the
// provider explicitly completes it.
func (uc *DefaultOrderUsecase) MarkOverdueRentals(ctx context.Context) error {
	orders, err := uc.OrderRepo.FindOverdueInProgressOrders(ctx, uc.now())
	if err != nil {
		return fmt.Errorf("querying overdue orders: %w", err)
	}

	for _, order := range orders {
		if err := uc.markEquipmentPendingReturn(ctx, order); err != nil {
			uc.recordSweepError()
			slog.Error("failed to flag overdue rental", "order_id", order.ID, "error", err.Error())
			continue
		}
	}
	return nil
}

func (uc *DefaultOrderUsecase) markEquipmentPendingReturn(ctx context.Context, order *domain.Order) error {
	var flagged bool
	err := uc.withWriteRetry("mark_overdue", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			current, err := tx.GetOrder(order.ID)
			if err != nil {
				return err
			}
			if current.Status != domain.StatusInProgress {
				return nil
			}
			equipment, err := tx.GetEquipment(order.EquipmentID)
			if err != nil {
				return err
			}
			if equipment.Status == domain.EquipmentPendingReturn {
				return nil
			}
			if err := tx.UpdateEquipmentStatus(equipment.ID, domain.EquipmentRented, domain.EquipmentPendingReturn); err != nil {
				return err
			}
			flagged = true
			return nil
		})
	})
	if err != nil {
		return err
	}
	if flagged {
		uc.Cache.Invalidate(ctx, order.EquipmentID)
		uc.recordSweepItem("mark_overdue")
		slog.Info("equipment flagged pending return", "order_id", order.ID, "equipment_id", order.EquipmentID)
	}
	return nil
}

// PromoteStartedOrders moves paid, accepted orders whose rental window has
// opened to IN_PROGRESS. This closes the gap left by payments confirmed
// before the start date.
func (uc *DefaultOrderUsecase) PromoteStartedOrders(ctx context.Context) error {
	orders, err := uc.OrderRepo.FindPaidOrdersAwaitingStart(ctx, uc.now())
	if err != nil {
		return fmt.Errorf("querying paid orders awaiting start: %w", err)
	}

	for _, order := range orders {
		if err := uc.promoteOrder(ctx, order); err != nil {
			uc.recordSweepError()
			slog.Error("failed to promote started order", "order_id", order.ID, "error", err.Error())
			continue
		}
	}
	return nil
}

func (uc *DefaultOrderUsecase) promoteOrder(ctx context.Context, order *domain.Order) error {
	var promoted *domain.Order
	err := uc.withWriteRetry("promote", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			current, err := tx.GetOrder(order.ID)
			if err != nil {
				return err
			}
			if current.Status != domain.StatusAccepted {
				return nil
			}
			if err := tx.UpdateOrderStatus(order.ID, domain.StatusAccepted, domain.StatusInProgress); err != nil {
				return err
			}
			promoted = current
			promoted.Status = domain.StatusInProgress
			return nil
		})
	})
	if err != nil {
		return err
	}
	if promoted != nil {
		uc.recordSweepItem("promote")
		uc.finishTransition(ctx, promoted, domain.StatusAccepted, domain.SystemActor)
	}
	return nil
}
