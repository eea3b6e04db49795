package repository

import (
	"context"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/mappers"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := r.DB.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainPayment(&model), nil
}
