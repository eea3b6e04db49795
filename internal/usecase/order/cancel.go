package usecase

import (
	"context"
	"fmt"

	"github.com/agrirent/rental-order-service/internal/domain"
)

// CancelOrder terminates a Pending or Accepted order. An Accepted cancel
// reverts the equipment to AVAILABLE and marks the pending payment record
// CANCELLED in the same transaction. InProgress and terminal orders cannot
// be cancelled.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	reason := "actor"
	if actor.System() {
		reason = "payment_timeout"
	}

	var updated *domain.Order
	err = uc.withWriteRetry("cancel", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			current, err := tx.GetOrder(orderID)
			if err != nil {
				return err
			}
			equipment, err := tx.GetEquipment(current.EquipmentID)
			if err != nil {
				return err
			}
			if err := uc.authorizeCancel(current, equipment, actor); err != nil {
				return err
			}

			switch current.Status {
			case domain.StatusPending:
				if err := tx.UpdateOrderStatus(orderID, domain.StatusPending, domain.StatusCancelled); err != nil {
					return err
				}

			case domain.StatusAccepted:
				record, err := tx.GetPaymentByOrderID(orderID)
				if err != nil {
					return err
				}
				// A payment that landed before the sweeper got here wins
				// the race: the order is not cancellable anymore.
				if record.Status == domain.PaymentPaid {
					return fmt.Errorf("order %s is already paid: %w", orderID, domain.ErrInvalidTransition)
				}

				if err := tx.UpdateOrderStatus(orderID, domain.StatusAccepted, domain.StatusCancelled); err != nil {
					return err
				}
				if err := tx.UpdateEquipmentStatus(equipment.ID, domain.EquipmentRented, domain.EquipmentAvailable); err != nil {
					return err
				}
				if record.Status == domain.PaymentPending {
					if err := tx.UpdatePaymentStatus(record.ID, domain.PaymentPending, domain.PaymentCancelled, nil); err != nil {
						return err
					}
				}

			default:
				return fmt.Errorf("order %s is %s: %w", orderID, current.Status, domain.ErrInvalidTransition)
			}

			updated = current
			updated.Status = domain.StatusCancelled
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Cache.Invalidate(ctx, updated.EquipmentID)
	uc.recordOrderCancelled(updated, reason)
	uc.finishTransition(ctx, updated, order.Status, actor)
	return updated, nil
}

func (uc *DefaultOrderUsecase) authorizeCancel(order *domain.Order, equipment *domain.Equipment, actor domain.Actor) error {
	if actor.System() || actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.ID == order.RenterID || actor.ID == equipment.OwnerID {
		return nil
	}
	return fmt.Errorf("actor %s is neither renter nor owner of order %s: %w", actor.ID, order.ID, domain.ErrForbidden)
}
