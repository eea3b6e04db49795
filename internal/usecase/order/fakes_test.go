package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the postgres store, implementing
// the RentalStore transactional port and the read-side repositories with
// the same compare-and-swap semantics.
type memStore struct {
	mu        sync.Mutex
	equipment map[string]*domain.Equipment
	orders    map[string]*domain.Order
	payments  map[string]*domain.PaymentRecord
}

func newMemStore() *memStore {
	return &memStore{
		equipment: make(map[string]*domain.Equipment),
		orders:    make(map[string]*domain.Order),
		payments:  make(map[string]*domain.PaymentRecord),
	}
}

func (s *memStore) addEquipment(id, ownerID string, dailyPrice decimal.Decimal, status domain.EquipmentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment[id] = &domain.Equipment{
		ID:         id,
		OwnerID:    ownerID,
		Name:       "Tractor " + id,
		DailyPrice: dailyPrice,
		Status:     status,
	}
}

func (s *memStore) InEquipmentTx(ctx context.Context, equipmentID string, fn func(tx domain.RentalTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.equipment[equipmentID]; !ok {
		return domain.ErrNotFound
	}
	return fn(&memTx{s: s})
}

type memTx struct {
	s *memStore
}

func (t *memTx) GetEquipment(id string) (*domain.Equipment, error) {
	equipment, ok := t.s.equipment[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *equipment
	return &clone, nil
}

func (t *memTx) UpdateEquipmentStatus(id string, from, to domain.EquipmentStatus) error {
	equipment, ok := t.s.equipment[id]
	if !ok {
		return domain.ErrNotFound
	}
	if equipment.Status != from {
		return fmt.Errorf("equipment %s not in %s: %w", id, from, domain.ErrConflict)
	}
	equipment.Status = to
	return nil
}

func (t *memTx) GetOrder(id string) (*domain.Order, error) {
	order, ok := t.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (t *memTx) CreateOrder(order *domain.Order) error {
	clone := *order
	t.s.orders[order.ID] = &clone
	return nil
}

func (t *memTx) UpdateOrderStatus(id string, from, to domain.OrderStatus) error {
	order, ok := t.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if order.Status != from {
		return fmt.Errorf("order %s not in %s: %w", id, from, domain.ErrConflict)
	}
	order.Status = to
	return nil
}

func (t *memTx) SetOrderPaymentDeadline(id string, deadline time.Time) error {
	order, ok := t.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	order.PaymentDeadline = deadline
	return nil
}

func (t *memTx) CountActiveOrders(equipmentID string) (int64, error) {
	var count int64
	for _, order := range t.s.orders {
		if order.EquipmentID != equipmentID || order.Status.Terminal() {
			continue
		}
		count++
	}
	return count, nil
}

func (t *memTx) CreatePaymentRecord(record *domain.PaymentRecord) error {
	for _, existing := range t.s.payments {
		if existing.OrderID == record.OrderID {
			return fmt.Errorf("payment record exists for order %s: %w", record.OrderID, domain.ErrConflict)
		}
	}
	clone := *record
	t.s.payments[record.ID] = &clone
	return nil
}

func (t *memTx) GetPaymentByOrderID(orderID string) (*domain.PaymentRecord, error) {
	for _, record := range t.s.payments {
		if record.OrderID == orderID {
			clone := *record
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (t *memTx) UpdatePaymentStatus(id string, from, to domain.PaymentStatus, paidAt *time.Time) error {
	record, ok := t.s.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	if record.Status != from {
		return fmt.Errorf("payment %s not in %s: %w", id, from, domain.ErrConflict)
	}
	record.Status = to
	if paidAt != nil {
		record.PaidAt = paidAt
	}
	return nil
}

// Read-side repository implementations over the same maps.

func (s *memStore) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{s: s}).GetOrder(orderID)
}

func (s *memStore) GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.MerchantOrderID == merchantOrderID {
			clone := *order
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) GetOrdersByRenterID(ctx context.Context, renterID string, page, limit int64) ([]*domain.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []*domain.Order
	for _, order := range s.orders {
		if order.RenterID == renterID {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	return orders, int64(len(orders)), nil
}

func (s *memStore) GetActiveOrderByEquipmentID(ctx context.Context, equipmentID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.EquipmentID == equipmentID && !order.Status.Terminal() {
			clone := *order
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) FindPaymentExpiredOrders(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []*domain.Order
	for _, order := range s.orders {
		if order.Status != domain.StatusAccepted || !order.PaymentDeadline.Before(now) {
			continue
		}
		record, err := (&memTx{s: s}).GetPaymentByOrderID(order.ID)
		if err != nil || (record.Status != domain.PaymentPending && record.Status != domain.PaymentFailed) {
			continue
		}
		clone := *order
		orders = append(orders, &clone)
	}
	return orders, nil
}

func (s *memStore) FindOverdueInProgressOrders(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []*domain.Order
	for _, order := range s.orders {
		if order.Status == domain.StatusInProgress && order.EndDate.Before(now) {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	return orders, nil
}

func (s *memStore) FindPaidOrdersAwaitingStart(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []*domain.Order
	for _, order := range s.orders {
		if order.Status != domain.StatusAccepted || order.StartDate.After(now) {
			continue
		}
		record, err := (&memTx{s: s}).GetPaymentByOrderID(order.ID)
		if err != nil || record.Status != domain.PaymentPaid {
			continue
		}
		clone := *order
		orders = append(orders, &clone)
	}
	return orders, nil
}

func (s *memStore) CreateEquipment(ctx context.Context, equipment *domain.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *equipment
	s.equipment[equipment.ID] = &clone
	return nil
}

func (s *memStore) GetEquipmentByID(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{s: s}).GetEquipment(equipmentID)
}

func (s *memStore) GetEquipmentByOwnerID(ctx context.Context, ownerID string) ([]*domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Equipment
	for _, equipment := range s.equipment {
		if equipment.OwnerID == ownerID {
			clone := *equipment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *memStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{s: s}).GetPaymentByOrderID(orderID)
}

func (s *memStore) equipmentStatus(id string) domain.EquipmentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment[id].Status
}

func (s *memStore) paymentForOrder(orderID string) *domain.PaymentRecord {
	record, _ := s.GetPaymentByOrderID(context.Background(), orderID)
	return record
}

// noopCache always misses so reads hit the store.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, equipmentID string) (*domain.Equipment, bool) {
	return nil, false
}
func (noopCache) Set(ctx context.Context, equipment *domain.Equipment)  {}
func (noopCache) Invalidate(ctx context.Context, equipmentID string)    {}

type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderLifecycleEvent
}

func (p *capturingPublisher) PublishLifecycleEvent(topic string, event domain.OrderLifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type capturingAudit struct {
	mu     sync.Mutex
	events []logger.OrderTransitionEvent
}

func (a *capturingAudit) LogTransition(ctx context.Context, event logger.OrderTransitionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

func (a *capturingAudit) recorded() []logger.OrderTransitionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]logger.OrderTransitionEvent(nil), a.events...)
}

type stubURLGenerator struct{}

func (stubURLGenerator) GeneratePaymentURL(merchantOrderID string, amount decimal.Decimal, subject string) (string, error) {
	return "https://gateway.test/pay?out_trade_no=" + merchantOrderID, nil
}

func newTestUsecase(store *memStore, now time.Time) *DefaultOrderUsecase {
	uc := NewDefaultOrderUsecase(
		store,
		store,
		store,
		store,
		noopCache{},
		&capturingPublisher{},
		nil,
		nil,
		stubURLGenerator{},
		"order-lifecycle-events",
		24*time.Hour,
	)
	return uc.WithClock(func() time.Time { return now })
}
