package domain

import (
	"errors"
	"fmt"

	"github.com/greenveggies/backend/shared/validation"
)

// ErrProductNotFound aborts the enclosing operation; an order referencing an
// unknown product must fail as a whole, not line by line.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError is returned when a reservation would drive a
// product's quantity negative. Reservations fail, they never clamp.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested=%d, remaining=%d",
		e.ProductID, e.Requested, e.Remaining)
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (r CreateProductRequest) Validate() validation.Errors {
	errs := validation.New()
	if r.Name == "" {
		errs.Add("name", "name is required")
	}
	if r.Price <= 0 {
		errs.Add("price", "price must be greater than 0")
	}
	if r.Quantity < 0 {
		errs.Add("quantity", "quantity must not be negative")
	}
	return errs
}

type ReplenishRequest struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (r ReplenishRequest) Validate() validation.Errors {
	errs := validation.New()
	if r.Quantity <= 0 {
		errs.Add("quantity", "quantity must be greater than 0")
	}
	if r.Price <= 0 {
		errs.Add("price", "price must be greater than 0")
	}
	return errs
}
