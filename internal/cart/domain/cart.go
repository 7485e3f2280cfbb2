package domain

import (
	"errors"
	"fmt"

	"github.com/greenveggies/backend/shared/validation"
)

var (
	ErrCartNotFound       = errors.New("shopping cart not found")
	ErrCartDetailNotFound = errors.New("shopping cart detail not found")
)

type MergeCartRequest struct {
	UserID     string            `json:"userID"`
	Items      []CartLineRequest `json:"items"`
	TotalPrice float64           `json:"totalPrice"`
}

type CartLineRequest struct {
	ProductID   string  `json:"productID"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (r MergeCartRequest) Validate() validation.Errors {
	errs := validation.New()

	if r.UserID == "" {
		errs.Add("userID", "userID is required")
	}
	if len(r.Items) == 0 {
		errs.Add("items", "at least one item is required")
	}
	if r.TotalPrice <= 0 {
		errs.Add("totalPrice", "totalPrice must be greater than 0")
	}

	for i, item := range r.Items {
		if item.ProductID == "" {
			errs.Add(fmt.Sprintf("items[%d].productID", i), "productID is required")
		}
		if item.Quantity <= 0 {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than 0")
		}
		if item.Price <= 0 {
			errs.Add(fmt.Sprintf("items[%d].price", i), "price is required")
		}
	}

	return errs
}

type UpdateQuantityRequest struct {
	ShoppingCartID string `json:"shoppingCartID"`
	ProductID      string `json:"productID"`
	Quantity       int    `json:"quantity"`
}

func (r UpdateQuantityRequest) Validate() validation.Errors {
	errs := validation.New()

	if r.ShoppingCartID == "" {
		errs.Add("shoppingCartID", "shoppingCartID is required")
	}
	if r.ProductID == "" {
		errs.Add("productID", "productID is required")
	}
	if r.Quantity <= 0 {
		errs.Add("quantity", "quantity must be greater than 0")
	}

	return errs
}
