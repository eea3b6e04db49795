package domain

import "time"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

// OrderLifecycleEvent is emitted after every committed order transition.
// An external notifier consumes these; delivery is best effort.
type OrderLifecycleEvent struct {
	OrderID     string      `json:"order_id"`
	EquipmentID string      `json:"equipment_id"`
	RenterID    string      `json:"renter_id"`
	Status      OrderStatus `json:"status"`
	Amount      string      `json:"amount"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
