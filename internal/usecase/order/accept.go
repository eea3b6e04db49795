package usecase

import (
	"context"
	"fmt"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/google/uuid"
)

// AcceptOrder reserves the equipment slot for a pending order. The order
// status, the equipment status and the payment record commit in one
// transaction: a provider never sees equipment reserved without a matching
// order, nor an accepted order whose equipment did not lock.
func (uc *DefaultOrderUsecase) AcceptOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = uc.withWriteRetry("accept", func() error {
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
			if current.Status != domain.StatusPending {
				return fmt.Errorf("order %s is %s, not PENDING: %w", orderID, current.Status, domain.ErrInvalidTransition)
			}
			if !equipment.Rentable() {
				return fmt.Errorf("equipment %s is %s: %w", equipment.ID, equipment.Status, domain.ErrConflict)
			}

			if err := tx.UpdateOrderStatus(orderID, domain.StatusPending, domain.StatusAccepted); err != nil {
				return err
			}
			if err := tx.UpdateEquipmentStatus(equipment.ID, domain.EquipmentAvailable, domain.EquipmentRented); err != nil {
				return err
			}

			deadline := uc.now().Add(uc.PaymentWindow)
			if err := tx.SetOrderPaymentDeadline(orderID, deadline); err != nil {
				return err
			}

			record := &domain.PaymentRecord{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				Amount:    current.TotalAmount,
				Status:    domain.PaymentPending,
				CreatedAt: uc.now(),
			}
			if err := tx.CreatePaymentRecord(record); err != nil {
				return err
			}

			updated = current
			updated.Status = domain.StatusAccepted
			updated.PaymentDeadline = deadline
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Cache.Invalidate(ctx, updated.EquipmentID)
	uc.recordOrderAccepted(ctx, updated)
	uc.finishTransition(ctx, updated, domain.StatusPending, actor)
	return updated, nil
}

// RejectOrder terminates a pending order. Equipment is untouched: the slot
// was never reserved.
func (uc *DefaultOrderUsecase) RejectOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = uc.withWriteRetry("reject", func() error {
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
			if current.Status != domain.StatusPending {
				return fmt.Errorf("order %s is %s, not PENDING: %w", orderID, current.Status, domain.ErrInvalidTransition)
			}

			if err := tx.UpdateOrderStatus(orderID, domain.StatusPending, domain.StatusRejected); err != nil {
				return err
			}
			updated = current
			updated.Status = domain.StatusRejected
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.recordOrderRejected(ctx, updated)
	uc.finishTransition(ctx, updated, domain.StatusPending, actor)
	return updated, nil
}

func (uc *DefaultOrderUsecase) authorizeProvider(equipment *domain.Equipment, actor domain.Actor) error {
	if actor.System() || actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.ID != equipment.OwnerID {
		return fmt.Errorf("actor %s does not own equipment %s: %w", actor.ID, equipment.ID, domain.ErrForbidden)
	}
	return nil
}
