package usecase

import (
	"context"

	"github.com/agrirent/rental-order-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByMerchantOrderID(ctx, merchantOrderID)
}

func (uc *DefaultOrderUsecase) GetOrdersByRenterID(ctx context.Context, renterID string, page, limit int64) ([]*domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return uc.OrderRepo.GetOrdersByRenterID(ctx, renterID, page, limit)
}

func (uc *DefaultOrderUsecase) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	return uc.PaymentRepo.GetPaymentByOrderID(ctx, orderID)
}

// GetEquipmentByID reads through the cache. The cache is advisory only:
// any miss or stale entry falls back to the store, and every status write
// invalidates.
func (uc *DefaultOrderUsecase) GetEquipmentByID(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	if equipment, ok := uc.Cache.Get(ctx, equipmentID); ok {
		return equipment, nil
	}

	equipment, err := uc.EquipmentRepo.GetEquipmentByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	uc.Cache.Set(ctx, equipment)
	return equipment, nil
}
