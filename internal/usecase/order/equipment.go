package usecase

import (
	"context"
	"fmt"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/google/uuid"
)

func (uc *DefaultOrderUsecase) CreateEquipment(ctx context.Context, input *CreateEquipmentInput) (*domain.Equipment, error) {
	if !input.DailyPrice.IsPositive() {
		return nil, fmt.Errorf("daily price must be positive: %w", domain.ErrInvalidRange)
	}

	now := uc.now()
	equipment := &domain.Equipment{
		ID:         uuid.New().String(),
		OwnerID:    input.OwnerID,
		Name:       input.Name,
		DailyPrice: input.DailyPrice,
		Lat:        input.Lat,
		Lon:        input.Lon,
		Status:     domain.EquipmentAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.EquipmentRepo.CreateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// maintenanceStatuses are the states a provider can toggle between by hand.
// RENTED and PENDING_RETURN belong to the order lifecycle and are never set
// directly.
var maintenanceStatuses = map[domain.EquipmentStatus]bool{
	domain.EquipmentAvailable:   true,
	domain.EquipmentMaintenance: true,
	domain.EquipmentOffline:     true,
}

// SetEquipmentStatus is the provider maintenance toggle. It runs under the
// equipment row lock so it cannot race an Accept on the same unit.
func (uc *DefaultOrderUsecase) SetEquipmentStatus(ctx context.Context, equipmentID string, status domain.EquipmentStatus, actor domain.Actor) error {
	if !maintenanceStatuses[status] {
		return fmt.Errorf("status %s is not a maintenance toggle target: %w", status, domain.ErrInvalidTransition)
	}

	err := uc.withWriteRetry("set_equipment_status", func() error {
		return uc.Store.InEquipmentTx(ctx, equipmentID, func(tx domain.RentalTx) error {
			equipment, err := tx.GetEquipment(equipmentID)
			if err != nil {
				return err
			}
			if err := uc.authorizeProvider(equipment, actor); err != nil {
				return err
			}
			if !maintenanceStatuses[equipment.Status] {
				return fmt.Errorf("equipment %s is %s, held by an active order: %w", equipmentID, equipment.Status, domain.ErrConflict)
			}
			if equipment.Status == status {
				return nil
			}
			return tx.UpdateEquipmentStatus(equipmentID, equipment.Status, status)
		})
	})
	if err != nil {
		return err
	}

	uc.Cache.Invalidate(ctx, equipmentID)
	return nil
}
