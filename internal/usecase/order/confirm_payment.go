package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrirent/rental-order-service/internal/domain"
)

// ConfirmPayment applies a verified gateway payment to the order. Only the
// reconciliation handler calls it, after signature verification. Redelivered
// callbacks for an already-paid record are a no-op success.
//
// Payment confirmation never touches equipment state: the unit was locked
// at Accept. The order moves to IN_PROGRESS only if the rental window has
// already opened; otherwise the sweeper promotes it at the start date.
func (uc *DefaultOrderUsecase) ConfirmPayment(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	var redelivered bool
	err = uc.withWriteRetry("confirm_payment", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			current, err := tx.GetOrder(orderID)
			if err != nil {
				return err
			}
			record, err := tx.GetPaymentByOrderID(orderID)
			if err != nil {
				return err
			}

			if record.Status == domain.PaymentPaid {
				redelivered = true
				updated = current
				return nil
			}
			if record.Status != domain.PaymentPending {
				return fmt.Errorf("payment for order %s is %s: %w", orderID, record.Status, domain.ErrInvalidTransition)
			}
			if current.Status != domain.StatusAccepted {
				return fmt.Errorf("order %s is %s, not ACCEPTED: %w", orderID, current.Status, domain.ErrInvalidTransition)
			}

			now := uc.now()
			if err := tx.UpdatePaymentStatus(record.ID, domain.PaymentPending, domain.PaymentPaid, &now); err != nil {
				return err
			}

			updated = current
			if !now.Before(current.StartDate) && now.Before(current.EndDate) {
				if err := tx.UpdateOrderStatus(orderID, domain.StatusAccepted, domain.StatusInProgress); err != nil {
					return err
				}
				updated.Status = domain.StatusInProgress
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if redelivered {
		return updated, nil
	}

	uc.recordPaymentConfirmed(updated)
	uc.finishTransition(ctx, updated, domain.StatusAccepted, domain.SystemActor)
	return updated, nil
}

// MarkPaymentFailed records a verified non-success gateway notification.
// The payment moves PENDING -> FAILED; the order stays ACCEPTED and the
// sweeper cancels it once the payment deadline passes. Notifications for a
// record that already left PENDING are a no-op.
func (uc *DefaultOrderUsecase) MarkPaymentFailed(ctx context.Context, orderID string) error {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	return uc.withWriteRetry("fail_payment", func() error {
		return uc.Store.InEquipmentTx(ctx, order.EquipmentID, func(tx domain.RentalTx) error {
			record, err := tx.GetPaymentByOrderID(orderID)
			if err != nil {
				return err
			}
			if record.Status != domain.PaymentPending {
				return nil
			}
			if err := tx.UpdatePaymentStatus(record.ID, domain.PaymentPending, domain.PaymentFailed, nil); err != nil {
				return err
			}
			slog.Info("payment marked failed", "order_id", orderID)
			return nil
		})
	})
}

// PaymentURL builds the gateway redirect URL for an accepted, still unpaid
// order.
func (uc *DefaultOrderUsecase) PaymentURL(ctx context.Context, orderID string) (string, error) {
	order, err := uc.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Status != domain.StatusAccepted {
		return "", fmt.Errorf("order %s is %s, not ACCEPTED: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}
	record, err := uc.PaymentRepo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if record.Status != domain.PaymentPending {
		return "", fmt.Errorf("payment for order %s is %s: %w", orderID, record.Status, domain.ErrInvalidTransition)
	}

	subject := "Equipment rental"
	if equipment, err := uc.GetEquipmentByID(ctx, order.EquipmentID); err == nil {
		subject = "Rental: " + equipment.Name
	}
	return uc.Gateway.GeneratePaymentURL(order.MerchantOrderID, order.TotalAmount, subject)
}
