package models

import (
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

type EquipmentModel struct {
	ID         string                 `gorm:"primaryKey;type:uuid"`
	OwnerID    string                 `gorm:"type:uuid;index"`
	Name       string                 `gorm:"not null"`
	DailyPrice decimal.Decimal        `gorm:"type:numeric(12,2);not null"`
	Lat        float64
	Lon        float64
	Status     domain.EquipmentStatus `gorm:"index;not null"`
	AvgRating  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (EquipmentModel) TableName() string {
	return "equipment"
}
