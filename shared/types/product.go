package types

import "time"

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusOutOfStock  ProductStatus = "out_of_stock"
	ProductStatusDiscontinue ProductStatus = "discontinued"
)

type Product struct {
	ProductID   string        `json:"productID"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Price       float64       `json:"price"`
	Quantity    int           `json:"quantity"`
	Sold        int           `json:"sold"`
	Import      int           `json:"import"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// StockEntry records one replenishment of a product.
type StockEntry struct {
	StockEntryID string    `json:"stockEntryID"`
	ProductID    string    `json:"productID"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	EntryDate    time.Time `json:"entryDate"`
}
