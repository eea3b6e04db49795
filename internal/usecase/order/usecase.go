package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/logger"
	"github.com/agrirent/rental-order-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// maxWriteAttempts bounds the internal retry loop for Conflict/Transient
// write failures before the error surfaces to the caller.
const maxWriteAttempts = 3

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error)
	AcceptOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)
	RejectOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID string) (*domain.Order, error)
	MarkPaymentFailed(ctx context.Context, orderID string) error
	CompleteOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)

	PaymentURL(ctx context.Context, orderID string) (string, error)

	// Sweeper entry points. The sweeper is a scheduled caller, never a
	// second writer of truth.
	CancelExpiredOrders(ctx context.Context) error
	MarkOverdueRentals(ctx context.Context) error
	PromoteStartedOrders(ctx context.Context) error

	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.Order, error)
	GetOrdersByRenterID(ctx context.Context, renterID string, page, limit int64) ([]*domain.Order, int64, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error)

	CreateEquipment(ctx context.Context, input *CreateEquipmentInput) (*domain.Equipment, error)
	GetEquipmentByID(ctx context.Context, equipmentID string) (*domain.Equipment, error)
	SetEquipmentStatus(ctx context.Context, equipmentID string, status domain.EquipmentStatus, actor domain.Actor) error
}

type CreateOrderInput struct {
	EquipmentID string
	RenterID    string
	StartDate   time.Time
	EndDate     time.Time
}

type CreateEquipmentInput struct {
	OwnerID    string
	Name       string
	DailyPrice decimal.Decimal
	Lat        float64
	Lon        float64
}

// LifecyclePublisher feeds committed transitions to the external notifier.
type LifecyclePublisher interface {
	PublishLifecycleEvent(topic string, event domain.OrderLifecycleEvent) error
}

// PaymentURLGenerator is the outward half of the gateway adapter.
type PaymentURLGenerator interface {
	GeneratePaymentURL(merchantOrderID string, amount decimal.Decimal, subject string) (string, error)
}

type DefaultOrderUsecase struct {
	Store         domain.RentalStore
	OrderRepo     domain.OrderRepository
	EquipmentRepo domain.EquipmentRepository
	PaymentRepo   domain.PaymentRepository
	Cache         domain.EquipmentCache
	Publisher     LifecyclePublisher
	AuditLog      logger.TransitionAuditLogger
	Metrics       *metrics.OrderMetrics
	Gateway       PaymentURLGenerator

	EventTopic    string
	PaymentWindow time.Duration

	now func() time.Time
}

func NewDefaultOrderUsecase(
	store domain.RentalStore,
	orderRepo domain.OrderRepository,
	equipmentRepo domain.EquipmentRepository,
	paymentRepo domain.PaymentRepository,
	cache domain.EquipmentCache,
	pub LifecyclePublisher,
	auditLog logger.TransitionAuditLogger,
	orderMetrics *metrics.OrderMetrics,
	gateway PaymentURLGenerator,
	eventTopic string,
	paymentWindow time.Duration) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		Store:         store,
		OrderRepo:     orderRepo,
		EquipmentRepo: equipmentRepo,
		PaymentRepo:   paymentRepo,
		Cache:         cache,
		Publisher:     pub,
		AuditLog:      auditLog,
		Metrics:       orderMetrics,
		Gateway:       gateway,
		EventTopic:    eventTopic,
		PaymentWindow: paymentWindow,
		now:           time.Now,
	}
}

// WithClock pins the usecase clock, for tests.
func (uc *DefaultOrderUsecase) WithClock(now func() time.Time) *DefaultOrderUsecase {
	uc.now = now
	return uc
}

// withWriteRetry re-runs fn on Conflict/Transient failures. fn must
// re-read and re-validate on every attempt, so a genuine loser of a race
// converges to InvalidTransition/Conflict instead of overwriting.
func (uc *DefaultOrderUsecase) withWriteRetry(operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrTransient) {
			return err
		}
		uc.recordConflict(operation)
		if attempt < maxWriteAttempts {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
		}
	}
	return err
}

// finishTransition records the audit row and publishes the lifecycle event
// for a committed transition. Both are best effort: the state change has
// already committed.
func (uc *DefaultOrderUsecase) finishTransition(ctx context.Context, order *domain.Order, from domain.OrderStatus, actor domain.Actor) {
	if uc.AuditLog != nil {
		event := logger.OrderTransitionEvent{
			OrderID:     order.ID,
			EquipmentID: order.EquipmentID,
			ActorID:     actor.ID,
			ActorRole:   string(actor.Role),
			FromStatus:  from,
			ToStatus:    order.Status,
			Timestamp:   uc.now(),
		}
		if err := uc.AuditLog.LogTransition(ctx, event); err != nil {
			slog.Error("failed to write transition audit row", "order_id", order.ID, "error", err.Error())
		}
	}

	if uc.Publisher == nil {
		return
	}
	go func(event domain.OrderLifecycleEvent) {
		if err := uc.Publisher.PublishLifecycleEvent(uc.EventTopic, event); err != nil {
			slog.Error("failed to publish order lifecycle event", "order_id", event.OrderID, "error", err.Error())
		}
	}(domain.OrderLifecycleEvent{
		OrderID:     order.ID,
		EquipmentID: order.EquipmentID,
		RenterID:    order.RenterID,
		Status:      order.Status,
		Amount:      order.TotalAmount.StringFixed(2),
		OccurredAt:  uc.now(),
	})
}
