package catalog

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID          string        `json:"id"`
	CategoryID  *string       `json:"category_id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	PriceCents  int           `json:"price_cents"`
	Stock       int           `json:"stock"`
	ImageURL    string        `json:"image_url"`
	Sizes       []ProductSize `json:"sizes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductSize: stok per varian ukuran, lepas dari stok umum produk.
type ProductSize struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}
