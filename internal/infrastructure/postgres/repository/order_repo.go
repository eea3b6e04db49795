package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/mappers"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "merchant_order_id = ?", merchantOrderID).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetOrdersByRenterID(ctx context.Context, renterID string, page, limit int64) ([]*domain.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("renter_id = ?", renterID)

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", translateError(err))
	}

	offset := (page - 1) * limit
	if err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&orderModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", translateError(err))
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}
	return orders, total, nil
}

func (r *DefaultOrderRepository) GetActiveOrderByEquipmentID(ctx context.Context, equipmentID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).
		Where("equipment_id = ? AND status IN (?)", equipmentID, domain.NonTerminalStatuses()).
		First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainOrder(&order), nil
}

// FindPaymentExpiredOrders returns accepted orders whose payment deadline
// has passed without a paid record. These are the sweeper's cancel
// candidates; a PAID record excludes the order even past the deadline,
// while a FAILED record keeps it eligible.
func (r *DefaultOrderRepository) FindPaymentExpiredOrders(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Joins("JOIN payment_records ON payment_records.order_id = orders.id").
		Where("orders.status = ?", domain.StatusAccepted).
		Where("orders.payment_deadline < ?", now).
		Where("payment_records.status IN (?)", []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed}).
		Find(&orderModels).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainOrders(orderModels), nil
}

func (r *DefaultOrderRepository) FindOverdueInProgressOrders(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusInProgress).
		Where("end_date < ?", now).
		Find(&orderModels).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainOrders(orderModels), nil
}

func (r *DefaultOrderRepository) FindPaidOrdersAwaitingStart(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Joins("JOIN payment_records ON payment_records.order_id = orders.id").
		Where("orders.status = ?", domain.StatusAccepted).
		Where("orders.start_date <= ?", now).
		Where("payment_records.status = ?", domain.PaymentPaid).
		Find(&orderModels).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainOrders(orderModels), nil
}

func toDomainOrders(orderModels []models.OrderModel) []*domain.Order {
	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}
	return orders
}
