package domain

import (
	"errors"

	"github.com/greenveggies/backend/shared/validation"
)

var ErrPaymentNotFound = errors.New("payment not found")

type CreatePaymentRequest struct {
	OrderID string  `json:"orderID"`
	UserID  string  `json:"userID"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

func (r CreatePaymentRequest) Validate() validation.Errors {
	errs := validation.New()

	if r.OrderID == "" {
		errs.Add("orderID", "orderID is required")
	}
	if r.UserID == "" {
		errs.Add("userID", "userID is required")
	}
	if r.Amount <= 0 {
		errs.Add("amount", "amount must be greater than 0")
	}
	if r.Method == "" {
		errs.Add("method", "method is required")
	}

	return errs
}
