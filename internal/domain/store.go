package domain

import (
	"context"
	"time"
)

// RentalTx is the set of writes available inside one store transaction.
// Status updates are compare-and-swap on the expected current value so a
// losing concurrent writer surfaces as ErrConflict instead of silently
// overwriting.
type RentalTx interface {
	GetEquipment(id string) (*Equipment, error)
	UpdateEquipmentStatus(id string, from, to EquipmentStatus) error

	GetOrder(id string) (*Order, error)
	CreateOrder(order *Order) error
	UpdateOrderStatus(id string, from, to OrderStatus) error
	SetOrderPaymentDeadline(id string, deadline time.Time) error
	CountActiveOrders(equipmentID string) (int64, error)

	CreatePaymentRecord(record *PaymentRecord) error
	GetPaymentByOrderID(orderID string) (*PaymentRecord, error)
	UpdatePaymentStatus(id string, from, to PaymentStatus, paidAt *time.Time) error
}

// RentalStore owns the transactional boundary between Order, Equipment and
// PaymentRecord state changes.
type RentalStore interface {
	// InEquipmentTx runs fn in a single transaction holding a row lock on
	// the equipment, serializing the availability check against concurrent
	// writers of the same equipment+order pair.
	InEquipmentTx(ctx context.Context, equipmentID string, fn func(tx RentalTx) error) error
}
