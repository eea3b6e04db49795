package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusAccepted   OrderStatus = "ACCEPTED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusRejected   OrderStatus = "REJECTED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Order is a rental agreement between a renter and a single equipment unit.
// TotalAmount is computed once at creation and never recomputed.
type Order struct {
	ID              string
	EquipmentID     string
	RenterID        string
	MerchantOrderID string
	StartDate       time.Time
	EndDate         time.Time
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	PaymentDeadline time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// orderTransitions is the single definition of legal order status moves.
// Every write path consults it before committing.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// NonTerminalStatuses are the statuses under which an order still holds or
// may come to hold the equipment slot.
func NonTerminalStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusAccepted, StatusInProgress}
}

// RentalDays returns the billable whole days between start and end,
// rounded up, never less than one.
func RentalDays(start, end time.Time) int64 {
	hours := end.Sub(start).Hours()
	days := int64(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
