package model

import "time"

// Sale is a committed sale transaction. Immutable once created.
type Sale struct {
	ID        int64      `json:"id"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []SaleItem `json:"items"`
}

// SaleItem is one line of a sale. Price is the inventory price at the moment
// the sale was processed, not the live price.
type SaleItem struct {
	ID          int64   `json:"id"`
	SaleID      int64   `json:"sale_id"`
	InventoryID int64   `json:"inventory_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`

	// Joined field (not always populated).
	ItemName string `json:"item_name,omitempty"`
}

// SaleLine is one (item, quantity) request within an incoming sale.
type SaleLine struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
}
