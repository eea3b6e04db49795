package usecase

import (
	"context"
	"fmt"

	"github.com/agrirent/rental-order-service/internal/domain"
)

// CompleteOrder closes an in-progress rental and returns the equipment to
// the rentable pool. This is the only path back to AVAILABLE after use.
// Before the end date only the provider (confirming physical return) or an
// admin may complete; past the end date the sweeper may as well.
func (uc *DefaultOrderUsecase) CompleteOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = uc.withWriteRetry("complete", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			current, err := tx.GetOrder(orderID)
			if err != nil {
				return err
			}
			equipment, err := tx.GetEquipment(current.EquipmentID)
			if err != nil {
				return err
			}
			if err := uc.authorizeProvider(equipment, actor); err != nil {
				return err
			}
			if current.Status != domain.StatusInProgress {
				return fmt.Errorf("order %s is %s, not IN_PROGRESS: %w", orderID, current.Status, domain.ErrInvalidTransition)
			}
			if actor.System() && uc.now().Before(current.EndDate) {
				return fmt.Errorf("order %s has not reached its end date: %w", orderID, domain.ErrInvalidTransition)
			}

			if err := tx.UpdateOrderStatus(orderID, domain.StatusInProgress, domain.StatusCompleted); err != nil {
				return err
			}
			if err := tx.UpdateEquipmentStatus(equipment.ID, equipment.Status, domain.EquipmentAvailable); err != nil {
				return err
			}

			updated = current
			updated.Status = domain.StatusCompleted
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Cache.Invalidate(ctx, updated.EquipmentID)
	uc.recordOrderCompleted(ctx, updated)
	uc.finishTransition(ctx, updated, domain.StatusInProgress, actor)
	return updated, nil
}
