package logger

import (
	"context"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"gorm.io/gorm"
)

// OrderTransitionEvent is one row of the transition audit trail. Terminal
// orders stay immutable; this table is the only thing still written about
// them afterwards.
type OrderTransitionEvent struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"index;not null"`
	EquipmentID string
	ActorID     string
	ActorRole   string
	FromStatus  domain.OrderStatus
	ToStatus    domain.OrderStatus
	Timestamp   time.Time
}

type TransitionAuditLogger interface {
	LogTransition(ctx context.Context, event OrderTransitionEvent) error
}

type PGTransitionAuditLogger struct {
	db *gorm.DB
}

func NewPGTransitionAuditLogger(db *gorm.DB) *PGTransitionAuditLogger {
	return &PGTransitionAuditLogger{db: db}
}

func (l *PGTransitionAuditLogger) LogTransition(ctx context.Context, event OrderTransitionEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
