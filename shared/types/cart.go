package types

import "time"

type ShoppingCart struct {
	ShoppingCartID string    `json:"shoppingCartID"`
	UserID         string    `json:"userID"`
	Details        []string  `json:"shoppingCartDetails"`
	TotalPrice     float64   `json:"totalPrice"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ShoppingCartDetail is one line of a cart; a product appears at most once
// per cart, repeat additions are merged into the existing line.
type ShoppingCartDetail struct {
	CartDetailID   string    `json:"shoppingCartDetailID"`
	ShoppingCartID string    `json:"shoppingCartID"`
	ProductID      string    `json:"productID"`
	Quantity       int       `json:"quantity"`
	Description    string    `json:"description,omitempty"`
	TotalAmount    float64   `json:"totalAmount"`
	UpdatedAt      time.Time `json:"updated_at"`
}
