package cart

import "time"

type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Size      string    `json:"size,omitempty"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// denormalisasi buat tampilan cart
	ProductName   string `json:"product_name,omitempty"`
	PriceCents    int    `json:"price_cents,omitempty"`
	SubtotalCents int    `json:"subtotal_cents,omitempty"`
}

type Summary struct {
	ItemCount  int `json:"item_count"`
	TotalQty   int `json:"total_qty"`
	TotalCents int `json:"total_cents"`
}

// CheckoutPreview: cart dibentuk serupa order, TANPA bikin order dan tanpa
// mengosongkan cart.
type CheckoutPreview struct {
	Items      []Item `json:"items"`
	TotalCents int    `json:"total_cents"`
}
