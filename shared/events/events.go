package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenveggies/backend/shared/types"
)

type EventType string

const (
	// Order events
	OrderCreatedEvent       EventType = "order.created"
	OrderStatusChangedEvent EventType = "order.status.changed"
	OrderDeletedEvent       EventType = "order.deleted"

	// Inventory events
	StockReplenishedEvent EventType = "stock.replenished"

	// Payment events
	PaymentCreatedEvent EventType = "payment.created"

	// Notification events
	NotificationSentEvent EventType = "notification.sent"
)

// DomainEvent is the envelope every service publishes to the topic exchange.
// Routing key: greenveggies.<service>.<event_type>.
type DomainEvent struct {
	ID            uuid.UUID   `json:"id"`
	EventType     EventType   `json:"event_type"`
	Service       string      `json:"service"`
	UserID        string      `json:"user_id,omitempty"`
	Payload       interface{} `json:"payload"`
	Timestamp     time.Time   `json:"timestamp"`
	CorrelationID uuid.UUID   `json:"correlation_id"`
}

type OrderCreatedPayload struct {
	Order   types.Order         `json:"order"`
	Details []types.OrderDetail `json:"details"`
}

type OrderStatusChangedPayload struct {
	OrderID    string            `json:"order_id"`
	UserID     string            `json:"user_id"`
	FromStatus types.OrderStatus `json:"from_status"`
	ToStatus   types.OrderStatus `json:"to_status"`
}

type OrderDeletedPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

type StockReplenishedPayload struct {
	ProductID    string  `json:"product_id"`
	StockEntryID string  `json:"stock_entry_id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

type PaymentCreatedPayload struct {
	Payment types.Payment `json:"payment"`
}

type NotificationSentPayload struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
}
