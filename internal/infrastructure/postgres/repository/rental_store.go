package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/mappers"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRentalStore owns the transactional boundary for all lifecycle
// writes. Every mutation of Order/Equipment/PaymentRecord state goes
// through InEquipmentTx so the availability check and the writes commit
// together or not at all.
type DefaultRentalStore struct {
	DB *gorm.DB
}

func NewDefaultRentalStore(db *gorm.DB) *DefaultRentalStore {
	return &DefaultRentalStore{DB: db}
}

func (s *DefaultRentalStore) InEquipmentTx(ctx context.Context, equipmentID string, fn func(tx domain.RentalTx) error) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the equipment serializes concurrent CreateOrder/Accept
		// against the same unit for the duration of the transaction.
		var locked models.EquipmentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", equipmentID).Error; err != nil {
			return translateError(err)
		}

		return fn(&rentalTx{tx: tx})
	})
	return err
}

// rentalTx adapts a gorm transaction to the domain.RentalTx port.
type rentalTx struct {
	tx *gorm.DB
}

func (t *rentalTx) GetEquipment(id string) (*domain.Equipment, error) {
	var model models.EquipmentModel
	if err := t.tx.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainEquipment(&model), nil
}

func (t *rentalTx) UpdateEquipmentStatus(id string, from, to domain.EquipmentStatus) error {
	res := t.tx.Model(&models.EquipmentModel{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("equipment %s not in %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (t *rentalTx) GetOrder(id string) (*domain.Order, error) {
	var model models.OrderModel
	if err := t.tx.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainOrder(&model), nil
}

func (t *rentalTx) CreateOrder(order *domain.Order) error {
	if err := t.tx.Create(mappers.ToGORMOrder(order)).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (t *rentalTx) UpdateOrderStatus(id string, from, to domain.OrderStatus) error {
	res := t.tx.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s not in %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (t *rentalTx) SetOrderPaymentDeadline(id string, deadline time.Time) error {
	res := t.tx.Model(&models.OrderModel{}).
		Where("id = ?", id).
		Update("payment_deadline", deadline)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *rentalTx) CountActiveOrders(equipmentID string) (int64, error) {
	var count int64
	err := t.tx.Model(&models.OrderModel{}).
		Where("equipment_id = ? AND status IN (?)", equipmentID, domain.NonTerminalStatuses()).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (t *rentalTx) CreatePaymentRecord(record *domain.PaymentRecord) error {
	if err := t.tx.Create(mappers.ToGORMPayment(record)).Error; err != nil {
		// The unique index on order_id enforces one record per order.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment record exists for order %s: %w", record.OrderID, domain.ErrConflict)
		}
		return translateError(err)
	}
	return nil
}

func (t *rentalTx) GetPaymentByOrderID(orderID string) (*domain.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := t.tx.First(&model, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainPayment(&model), nil
}

func (t *rentalTx) UpdatePaymentStatus(id string, from, to domain.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{"status": to}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	res := t.tx.Model(&models.PaymentRecordModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment %s not in %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("unique constraint violated: %w", domain.ErrConflict)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("store call timed out: %w", domain.ErrTransient)
	default:
		return err
	}
}
