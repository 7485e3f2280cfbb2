package types

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo reports whether a status update to next is legal.
// Delivered and Cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	default:
		return false
	}
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	OrderID       string      `json:"orderID"`
	UserID        string      `json:"userID"`
	OrderDetails  []string    `json:"orderDetails"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Address       string      `json:"address"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderDetail is one immutable line item of an order.
type OrderDetail struct {
	OrderDetailID string    `json:"orderDetailID"`
	OrderID       string    `json:"orderID"`
	ProductID     string    `json:"productID"`
	Quantity      int       `json:"quantity"`
	TotalAmount   float64   `json:"totalAmount"`
	CreatedAt     time.Time `json:"created_at"`
}
