package models

import (
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderModel struct {
	ID              string             `gorm:"primaryKey;type:uuid"`
	EquipmentID     string             `gorm:"type:uuid;index;not null"`
	Equipment       EquipmentModel     `gorm:"foreignKey:EquipmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	RenterID        string             `gorm:"type:uuid;index;not null"`
	MerchantOrderID string             `gorm:"uniqueIndex;not null"`
	StartDate       time.Time          `gorm:"index:idx_order_window"`
	EndDate         time.Time          `gorm:"index:idx_order_window"`
	TotalAmount     decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	Status          domain.OrderStatus `gorm:"index:idx_status_deadline;not null"`
	PaymentDeadline time.Time          `gorm:"index:idx_status_deadline"`
	CreatedAt       time.Time          `gorm:"index"`
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
