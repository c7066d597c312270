package orders

import "time"

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Status     Status      `json:"status"`
	TotalCents int         `json:"total_cents"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OrderItem: harga dibekukan saat order dibuat, bukan referensi ke harga
// produk sekarang.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Size       string `json:"size,omitempty"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

// LineInput: satu baris permintaan order dari client. Harga TIDAK diterima
// dari client.
type LineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}
