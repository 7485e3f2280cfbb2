package domain

import (
	"errors"
	"fmt"

	"github.com/greenveggies/backend/shared/types"
	"github.com/greenveggies/backend/shared/validation"
)

// MarkupFactor is the fixed margin applied to the catalog unit price when an
// order line's charged amount is computed. Applied at order time, not at
// catalog time.
const MarkupFactor = 1.5

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotDeletable rejects deleting an order that already shipped.
	ErrOrderNotDeletable = errors.New("only pending or cancelled orders can be deleted")
)

// StatusTransitionError rejects an order status update that the lifecycle
// does not allow (Pending -> Shipped -> Delivered, Cancelled from
// Pending/Shipped; Delivered and Cancelled are terminal).
type StatusTransitionError struct {
	From types.OrderStatus
	To   types.OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}

type CreateOrderRequest struct {
	UserID        string             `json:"userID"`
	OrderDetails  []OrderLineRequest `json:"orderDetails"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	Address       string             `json:"address"`
}

type OrderLineRequest struct {
	ProductID string `json:"productID"`
	Quantity  int    `json:"quantity"`
}

// Validate collects every violation before failing; no side effect happens
// while any field is invalid.
func (r CreateOrderRequest) Validate() validation.Errors {
	errs := validation.New()

	if r.UserID == "" {
		errs.Add("userID", "userID is required")
	}
	if len(r.OrderDetails) == 0 {
		errs.Add("orderDetails", "at least one order detail is required")
	}
	if r.TotalQuantity <= 0 {
		errs.Add("totalQuantity", "totalQuantity must be greater than 0")
	}
	if r.TotalAmount <= 0 {
		errs.Add("totalAmount", "totalAmount must be greater than 0")
	}
	if r.PaymentMethod == "" {
		errs.Add("paymentMethod", "paymentMethod is required")
	}
	if r.Address == "" {
		errs.Add("address", "address is required")
	}

	var lineQuantity int
	for i, line := range r.OrderDetails {
		if line.ProductID == "" {
			errs.Add(fmt.Sprintf("orderDetails[%d].productID", i), "productID is required")
		}
		if line.Quantity <= 0 {
			errs.Add(fmt.Sprintf("orderDetails[%d].quantity", i), "quantity must be greater than 0")
		}
		lineQuantity += line.Quantity
	}

	// totalQuantity must equal the sum of the detail quantities at creation
	// time; details are immutable afterwards.
	if len(r.OrderDetails) > 0 && r.TotalQuantity > 0 && lineQuantity != r.TotalQuantity {
		errs.Add("totalQuantity", "totalQuantity must equal the sum of order detail quantities")
	}

	return errs
}

type UpdateStatusRequest struct {
	Status types.OrderStatus `json:"status"`
}
