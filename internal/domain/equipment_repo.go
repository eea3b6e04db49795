package domain

import "context"

type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment *Equipment) error
	GetEquipmentByID(ctx context.Context, equipmentID string) (*Equipment, error)
	GetEquipmentByOwnerID(ctx context.Context, ownerID string) ([]*Equipment, error)
}

type PaymentRepository interface {
	GetPaymentByOrderID(ctx context.Context, orderID string) (*PaymentRecord, error)
}

// EquipmentCache is a read-through cache over equipment lookups. It is
// never authoritative: every status write invalidates the cached entry.
type EquipmentCache interface {
	Get(ctx context.Context, equipmentID string) (*Equipment, bool)
	Set(ctx context.Context, equipment *Equipment)
	Invalidate(ctx context.Context, equipmentID string)
}
