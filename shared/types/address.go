package types

import "time"

// Address is a shipping address; at most one per user carries Default=true.
type Address struct {
	AddressID string    `json:"addressID"`
	UserID    string    `json:"userID"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Ward      string    `json:"ward"`
	Street    string    `json:"street"`
	Default   bool      `json:"default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
