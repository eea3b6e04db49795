package mappers

import (
	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentRecordModel) *domain.PaymentRecord {
	return &domain.PaymentRecord{
		ID:        model.ID,
		OrderID:   model.OrderID,
		Amount:    model.Amount,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		PaidAt:    model.PaidAt,
	}
}

func ToGORMPayment(record *domain.PaymentRecord) *models.PaymentRecordModel {
	return &models.PaymentRecordModel{
		ID:        record.ID,
		OrderID:   record.OrderID,
		Amount:    record.Amount,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		PaidAt:    record.PaidAt,
	}
}
