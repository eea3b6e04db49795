package mappers

import (
	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:              model.ID,
		EquipmentID:     model.EquipmentID,
		RenterID:        model.RenterID,
		MerchantOrderID: model.MerchantOrderID,
		StartDate:       model.StartDate,
		EndDate:         model.EndDate,
		TotalAmount:     model.TotalAmount,
		Status:          model.Status,
		PaymentDeadline: model.PaymentDeadline,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:              order.ID,
		EquipmentID:     order.EquipmentID,
		RenterID:        order.RenterID,
		MerchantOrderID: order.MerchantOrderID,
		StartDate:       order.StartDate,
		EndDate:         order.EndDate,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		PaymentDeadline: order.PaymentDeadline,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
