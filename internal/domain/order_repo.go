package domain

import (
	"context"
	"time"
)

// OrderRepository is the read side of order persistence. All lifecycle
// writes go through RentalStore.
type OrderRepository interface {
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*Order, error)
	GetOrdersByRenterID(ctx context.Context, renterID string, page, limit int64) ([]*Order, int64, error)
	GetActiveOrderByEquipmentID(ctx context.Context, equipmentID string) (*Order, error)

	// Sweeper queries.
	FindPaymentExpiredOrders(ctx context.Context, now time.Time) ([]*Order, error)
	FindOverdueInProgressOrders(ctx context.Context, now time.Time) ([]*Order, error)
	FindPaidOrdersAwaitingStart(ctx context.Context, now time.Time) ([]*Order, error)
}
