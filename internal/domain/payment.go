package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// PaymentRecord tracks the gateway settlement for exactly one order.
// Status only moves forward: PENDING -> PAID | FAILED | CANCELLED.
type PaymentRecord struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Status    PaymentStatus
	CreatedAt time.Time
	PaidAt    *time.Time
}

func (s PaymentStatus) Final() bool {
	return s != PaymentPending
}
