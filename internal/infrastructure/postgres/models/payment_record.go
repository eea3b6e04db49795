package models

import (
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PaymentRecordModel struct {
	ID        string               `gorm:"primaryKey;type:uuid"`
	OrderID   string               `gorm:"type:uuid;uniqueIndex;not null"`
	Order     OrderModel           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Amount    decimal.Decimal      `gorm:"type:numeric(12,2);not null"`
	Status    domain.PaymentStatus `gorm:"index;not null"`
	CreatedAt time.Time
	PaidAt    *time.Time
}

func (PaymentRecordModel) TableName() string {
	return "payment_records"
}
