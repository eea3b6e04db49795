package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EquipmentStatus string

const (
	EquipmentAvailable     EquipmentStatus = "AVAILABLE"
	EquipmentRented        EquipmentStatus = "RENTED"
	EquipmentPendingReturn EquipmentStatus = "PENDING_RETURN"
	EquipmentMaintenance   EquipmentStatus = "MAINTENANCE"
	EquipmentOffline       EquipmentStatus = "OFFLINE"
)

// Equipment is a single rentable unit owned by a provider. Status is a
// current-availability signal: RENTED/PENDING_RETURN are only ever held
// while exactly one active order references the unit.
type Equipment struct {
	ID         string
	OwnerID    string
	Name       string
	DailyPrice decimal.Decimal
	Lat        float64
	Lon        float64
	Status     EquipmentStatus
	AvgRating  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Rentable reports whether a new order may be created against the unit.
func (e *Equipment) Rentable() bool {
	return e.Status == EquipmentAvailable
}
