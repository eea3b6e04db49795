package usecase

import (
	"context"
	"fmt"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

// CreateOrder places a Pending order against an available equipment unit.
// Equipment status is left untouched: the slot is only reserved at Accept,
// so a rejection never has to undo a reservation.
func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error) {
	if !input.StartDate.Before(input.EndDate) {
		return nil, fmt.Errorf("start %s is not before end %s: %w",
			input.StartDate.Format("2006-01-02"), input.EndDate.Format("2006-01-02"), domain.ErrInvalidRange)
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = uc.withWriteRetry("create", func() error {
		return uc.Store.InEquipmentTx(ctx, input.EquipmentID, func(tx domain.RentalTx) error {
			equipment, err := tx.GetEquipment(input.EquipmentID)
			if err != nil {
				return err
			}
			if !equipment.Rentable() {
				return fmt.Errorf("equipment %s is %s: %w", equipment.ID, equipment.Status, domain.ErrConflict)
			}

			// Slot exclusivity: one non-terminal order blocks the unit
			// entirely, Pending included.
			active, err := tx.CountActiveOrders(input.EquipmentID)
			if err != nil {
				return err
			}
			if active > 0 {
				return fmt.Errorf("equipment %s already has an active order: %w", equipment.ID, domain.ErrConflict)
			}

			days := domain.RentalDays(input.StartDate, input.EndDate)
			now := uc.now()
			order = &domain.Order{
				ID:              uuid.New().String(),
				EquipmentID:     input.EquipmentID,
				RenterID:        input.RenterID,
				MerchantOrderID: idGenerator(),
				StartDate:       input.StartDate.UTC(),
				EndDate:         input.EndDate.UTC(),
				TotalAmount:     equipment.DailyPrice.Mul(decimal.NewFromInt(days)),
				Status:          domain.StatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			return tx.CreateOrder(order)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.recordOrderCreated(ctx, order)
	// Creation has no prior status; the audit row carries an empty from.
	uc.finishTransition(ctx, order, "", domain.Actor{ID: input.RenterID, Role: domain.RoleFarmer})
	return order, nil
}
